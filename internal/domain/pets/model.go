package pets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// Pet pertenece a un solo owner. Especie y raza son referencias al catálogo
// (species / breeds); el resto de los campos es opcional.
type Pet struct {
	ID      string
	OwnerID string

	Name      string
	SpeciesID int
	BreedID   *int
	Gender    Gender

	BirthDate *time.Time
	Weight    *decimal.Decimal // kg
	Color     string
	Microchip string
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
