package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("s3cret", "pet-care-center")
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	tok, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
}

func TestVerifier_RejectsExpired(t *testing.T) {
	v := NewVerifier("s3cret", "")
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	tok, err := v.Sign("user-1", time.Minute)
	require.NoError(t, err)

	v.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifier_RejectsWrongSecretAndIssuer(t *testing.T) {
	signer := NewVerifier("other", "pet-care-center")
	tok, err := signer.Sign("user-1", time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("s3cret", "pet-care-center").Verify(context.Background(), tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	sameSecret := NewVerifier("other", "someone-else")
	_, err = sameSecret.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestVerifier_NotConfigured(t *testing.T) {
	_, err := NewVerifier("", "").Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
