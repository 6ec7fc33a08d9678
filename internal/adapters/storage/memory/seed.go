package memory

import (
	"time"

	"pet-care-center/internal/domain/catalog"

	"github.com/shopspring/decimal"
)

// SeedSpecies carga el catálogo de especies (en Postgres lo hace la migración).
func (s *Store) SeedSpecies(names map[int]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, name := range names {
		s.species[id] = name
	}
}

func (s *Store) SeedServices(items ...catalog.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.services[it.ID] = it
	}
}

// SeedDefaults replica los datos iniciales de migrations/000002_seed_catalog.
func (s *Store) SeedDefaults(now time.Time) {
	s.SeedSpecies(map[int]string{1: "Dog", 2: "Cat", 3: "Bird", 4: "Rabbit"})
	s.SeedServices(
		catalog.Service{ID: "svc-checkup", Name: "General Checkup", Description: "Routine health examination", Price: decimal.NewFromInt(1500), Duration: 30, Status: catalog.StatusActive, CreatedAt: now},
		catalog.Service{ID: "svc-vaccination", Name: "Vaccination", Description: "Core vaccines", Price: decimal.NewFromInt(2000), Duration: 20, Status: catalog.StatusActive, CreatedAt: now},
		catalog.Service{ID: "svc-grooming", Name: "Grooming", Description: "Bath, trim and nail clipping", Price: decimal.NewFromInt(2500), Duration: 60, Status: catalog.StatusActive, CreatedAt: now},
		catalog.Service{ID: "svc-boarding-standard", Name: "Boarding - Standard", Description: "Daily rate, shared kennel", Price: decimal.NewFromInt(1000), Duration: 1440, Status: catalog.StatusActive, CreatedAt: now},
		catalog.Service{ID: "svc-boarding-premium", Name: "Boarding - Premium", Description: "Daily rate, private suite", Price: decimal.NewFromInt(1800), Duration: 1440, Status: catalog.StatusActive, CreatedAt: now},
		catalog.Service{ID: "svc-dental", Name: "Dental Cleaning", Description: "Discontinued", Price: decimal.NewFromInt(3500), Duration: 45, Status: catalog.StatusInactive, CreatedAt: now},
	)
}
