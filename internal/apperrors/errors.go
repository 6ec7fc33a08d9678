package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Ownership / selección
	ErrOwnership        = errors.New("record does not belong to owner")
	ErrInvalidSelection = errors.New("invalid selection")

	// Fechas y horarios
	ErrPastDate             = errors.New("date cannot be in the past")
	ErrInvalidDateRange     = errors.New("check-out date must be after check-in date")
	ErrInvalidTimeFormat    = errors.New("time must use HH:MM format")
	ErrOutsideBusinessHours = errors.New("time is outside business hours")

	// Estados
	ErrInvalidTransition = errors.New("invalid status transition")

	// Pagos
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrOverpayment    = errors.New("amount exceeds remaining balance")
	ErrBillNotPayable = errors.New("bill is not payable")
	ErrInvalidMethod  = errors.New("invalid payment method")
	ErrAlreadyBilled  = errors.New("appointment already billed")

	ErrPersistence          = errors.New("persistence error")
	ErrOwnerProfileRequired = errors.New("owner profile required")
)

// Violations agrupa varias fallas de validación detectadas antes de mutar.
// errors.Is(v, ErrX) es true si alguna de las fallas es ErrX.
type Violations []error

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, err := range v {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (v Violations) Unwrap() []error { return v }

// Err devuelve nil si no hay violaciones.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Field adjunta el nombre del campo a una falla sin perder el sentinel.
func Field(name string, err error) error {
	return &FieldError{Field: name, Err: err}
}

type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// Persistence envuelve un error del store. El resultado matchea ErrPersistence
// y conserva el error original del driver.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// FromStore deja pasar los errores de dominio que devuelve un repo
// (not found, ownership, transición inválida...) y envuelve el resto.
func FromStore(op string, err error) error {
	if err == nil || IsDomain(err) || errors.Is(err, ErrPersistence) {
		return err
	}
	return Persistence(op, err)
}

// IsDomain indica si el error es una regla de negocio (y no una falla del store).
func IsDomain(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var domainErrors = []error{
	ErrNotFound,
	ErrInvalidInput,
	ErrOwnership,
	ErrInvalidSelection,
	ErrPastDate,
	ErrInvalidDateRange,
	ErrInvalidTimeFormat,
	ErrOutsideBusinessHours,
	ErrInvalidTransition,
	ErrInvalidAmount,
	ErrOverpayment,
	ErrBillNotPayable,
	ErrInvalidMethod,
	ErrAlreadyBilled,
	ErrOwnerProfileRequired,
}
