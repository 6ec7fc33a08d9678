package memory

import (
	"sync"

	"pet-care-center/internal/domain/appointments"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/boarding"
	"pet-care-center/internal/domain/catalog"
	"pet-care-center/internal/domain/owners"
	"pet-care-center/internal/domain/pets"
)

// Store es la "base" en memoria. Un solo mutex para todas las tablas: una
// operación compuesta (estadía + factura, pago + estado) es atómica mientras
// lo tiene tomado. Para dev y tests.
type Store struct {
	mu sync.RWMutex

	owners       map[string]owners.Owner
	species      map[int]string
	pets         map[string]pets.Pet
	services     map[string]catalog.Service
	appointments map[string]appointments.Appointment
	boarding     map[string]boarding.Boarding
	bills        map[string]billing.Bill
	payments     map[string][]billing.Payment // por bill id
}

func NewStore() *Store {
	return &Store{
		owners:       make(map[string]owners.Owner),
		species:      make(map[int]string),
		pets:         make(map[string]pets.Pet),
		services:     make(map[string]catalog.Service),
		appointments: make(map[string]appointments.Appointment),
		boarding:     make(map[string]boarding.Boarding),
		bills:        make(map[string]billing.Bill),
		payments:     make(map[string][]billing.Payment),
	}
}

// insertBill asume el lock tomado.
func (s *Store) insertBill(b billing.Bill) {
	b.Details = append([]billing.Detail(nil), b.Details...)
	s.bills[b.ID] = b
}

// petOwner asume el lock tomado.
func (s *Store) petOwner(petID string) (string, bool) {
	p, ok := s.pets[petID]
	return p.OwnerID, ok
}
