package validation

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	PetID  string `json:"pet_id" validate:"required"`
	Date   string `json:"date" validate:"required,date"`
	Amount string `json:"amount" validate:"omitempty,decimal"`
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(&sampleRequest{Date: "10/01/2025", Amount: "abc"})
	require.Error(t, err)

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []string{
		"pet_id is required",
		"date must be YYYY-MM-DD",
		"amount must be a decimal number",
	}, ve.Fields)
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(&sampleRequest{PetID: "p1", Date: "2025-01-10", Amount: "1000.50"}))
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"pet_id":"p1","date":"2025-01-10","extra":1}`))

	var req sampleRequest
	err := DecodeJSON(r, &req)

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"invalid json"}, ve.Fields)
}
