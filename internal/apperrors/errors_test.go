package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolations_IsMatchesEveryMember(t *testing.T) {
	var v Violations
	v = append(v, Field("date", ErrPastDate), Field("time", ErrOutsideBusinessHours))

	err := v.Err()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrPastDate)
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
	assert.NotErrorIs(t, err, ErrOwnership)
	assert.Equal(t, "date: date cannot be in the past; time: time is outside business hours", err.Error())
}

func TestViolations_EmptyIsNil(t *testing.T) {
	var v Violations
	assert.NoError(t, v.Err())
}

func TestPersistence_KeepsDriverError(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := Persistence("insert bill", driverErr)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, driverErr)
	assert.False(t, IsDomain(err))
	assert.Nil(t, Persistence("noop", nil))
}

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(Violations{ErrInvalidMethod}))
	assert.True(t, IsDomain(ErrInvalidTransition))
	assert.False(t, IsDomain(errors.New("boom")))
}

func TestFromStore(t *testing.T) {
	assert.Nil(t, FromStore("op", nil))
	assert.Same(t, ErrNotFound, FromStore("get bill", ErrNotFound))

	err := FromStore("get bill", errors.New("timeout"))
	assert.ErrorIs(t, err, ErrPersistence)

	// no se envuelve dos veces
	assert.Equal(t, err, FromStore("again", err))
}
