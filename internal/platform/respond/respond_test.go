package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-care-center/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrOwnership, http.StatusForbidden},
		{apperrors.ErrOwnerProfileRequired, http.StatusForbidden},
		{apperrors.ErrInvalidTransition, http.StatusConflict},
		{apperrors.ErrBillNotPayable, http.StatusConflict},
		{apperrors.ErrInvalidInput, http.StatusBadRequest},
		{apperrors.Violations{apperrors.ErrPastDate}, http.StatusUnprocessableEntity},
		{apperrors.Violations{apperrors.ErrOverpayment}, http.StatusUnprocessableEntity},
		{apperrors.Violations{apperrors.ErrPastDate, apperrors.ErrOwnership}, http.StatusForbidden},
		{apperrors.Persistence("x", errors.New("driver")), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestError_ListsViolations(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperrors.Violations{
		apperrors.Field("time", apperrors.ErrInvalidTimeFormat),
		apperrors.Field("date", apperrors.ErrPastDate),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Len(t, body.Violations, 2)
}

func TestError_HidesPersistenceDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperrors.Persistence("insert bill", errors.New("pq: secret detail")))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}
