package appointments

import (
	"time"

	"pet-care-center/internal/platform/calendar"

	"github.com/shopspring/decimal"
)

// Status de una cita. completed y cancelled son terminales.
// @Enum scheduled, confirmed, completed, cancelled
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled}

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Active: la cita todavía ocupa agenda (bloquea borrar la mascota).
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment. El owner se deriva de la mascota; OwnerID se llena al leer.
type Appointment struct {
	ID        string
	PetID     string
	ServiceID string
	StaffID   string

	Date   time.Time // fecha de negocio, medianoche UTC
	Time   calendar.TimeOfDay
	Status Status
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Solo lectura (joins).
	OwnerID      string
	PetName      string
	ServiceName  string
	ServicePrice decimal.Decimal
	BillID       string
}
