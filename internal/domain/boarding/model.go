package boarding

import (
	"time"

	"pet-care-center/internal/platform/calendar"

	"github.com/shopspring/decimal"
)

// Status de una estadía. checked_out y cancelled son terminales.
// @Enum booked, checked_in, checked_out, cancelled
type Status string

const (
	StatusBooked     Status = "booked"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusBooked:    {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// listRank es el orden del listado: primero lo que está en curso.
func (s Status) listRank() int {
	switch s {
	case StatusCheckedIn:
		return 1
	case StatusBooked:
		return 2
	case StatusCheckedOut:
		return 3
	case StatusCancelled:
		return 4
	default:
		return 5
	}
}

// Boarding es una estadía. CheckOut es exclusivo: la noche del check-out no se cobra.
type Boarding struct {
	ID      string
	PetID   string
	OwnerID string

	CheckIn             time.Time
	CheckOut            time.Time
	DailyRate           decimal.Decimal
	SpecialInstructions string
	Status              Status

	CreatedAt time.Time
	UpdatedAt time.Time

	// Solo lectura.
	PetName string
}

func (b Boarding) Days() int {
	return calendar.DaysBetween(b.CheckIn, b.CheckOut)
}

// TotalCost = tarifa diaria × días.
func (b Boarding) TotalCost() decimal.Decimal {
	return b.DailyRate.Mul(decimal.NewFromInt(int64(b.Days()))).Round(2)
}

// Group clasifica la estadía para la vista agrupada.
// @Enum active, upcoming, past, cancelled
type Group string

const (
	GroupActive    Group = "active"
	GroupUpcoming  Group = "upcoming"
	GroupPast      Group = "past"
	GroupCancelled Group = "cancelled"
)

// GroupAt aplica las reglas en orden; la primera que matchea gana.
func (b Boarding) GroupAt(today time.Time) Group {
	today = calendar.Date(today)
	switch {
	case b.Status == StatusCancelled:
		return GroupCancelled
	case b.Status == StatusCheckedIn:
		return GroupActive
	case b.Status == StatusCheckedOut || b.CheckOut.Before(today):
		return GroupPast
	case b.Status == StatusBooked && b.CheckIn.After(today):
		return GroupUpcoming
	default:
		return GroupActive
	}
}

// Less es el orden del listado: estado (checked_in, booked, checked_out,
// cancelled) y después check-in más reciente primero.
func Less(a, b Boarding) bool {
	if ra, rb := a.Status.listRank(), b.Status.listRank(); ra != rb {
		return ra < rb
	}
	return a.CheckIn.After(b.CheckIn)
}
