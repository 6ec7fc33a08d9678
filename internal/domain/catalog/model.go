package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Service es un ítem del catálogo (consulta, baño, hospedaje...).
// Desde el core es inmutable; se referencia desde citas y tarifas de hospedaje.
type Service struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	// Duración en minutos.
	Duration int
	Status   Status

	CreatedAt time.Time
}

func (s Service) Active() bool { return s.Status == StatusActive }

// BoardingPrefix identifica las tarifas de hospedaje dentro del catálogo.
const BoardingPrefix = "Boarding"

func (s Service) IsBoardingRate() bool {
	return strings.HasPrefix(s.Name, BoardingPrefix)
}
