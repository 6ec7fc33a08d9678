package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/platform/validation"
)

// JSON escribe v como JSON con el status dado.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse es el cuerpo de todas las respuestas de error.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// Error traduce errores de dominio a status HTTP. Nunca expone el error del driver.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	body := ErrorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}

	var v apperrors.Violations
	if errors.As(err, &v) {
		body.Error = "validation failed"
		for _, e := range v {
			body.Violations = append(body.Violations, e.Error())
		}
	}

	JSON(w, status, body)
}

func Status(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrOwnerProfileRequired):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrBillNotPayable),
		errors.Is(err, apperrors.ErrAlreadyBilled):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrOwnership):
		// Una violación de ownership dentro de una lista sigue siendo 403.
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case apperrors.IsDomain(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Unauthorized / BadRequest mantienen el formato JSON de errores.
func Unauthorized(w http.ResponseWriter) {
	JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

func BadRequest(w http.ResponseWriter, msg string, violations ...string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Violations: violations})
}

// Invalid responde 400 con los campos rechazados por la capa de validación.
func Invalid(w http.ResponseWriter, err error) {
	var ve *validation.Error
	if errors.As(err, &ve) {
		BadRequest(w, "invalid request", ve.Fields...)
		return
	}
	BadRequest(w, err.Error())
}
