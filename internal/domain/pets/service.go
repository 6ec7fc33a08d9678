package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/platform/calendar"
	"pet-care-center/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrPetHasActiveAppointments matchea ErrInvalidTransition (409).
var ErrPetHasActiveAppointments = fmt.Errorf("%w: pet has scheduled or confirmed appointments", apperrors.ErrInvalidTransition)

type Service struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

type CreateInput struct {
	Name      string
	SpeciesID int
	BreedID   *int
	Gender    Gender
	BirthDate *time.Time
	Weight    *decimal.Decimal
	Color     string
	Microchip string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, apperrors.ErrInvalidInput
	}

	var v apperrors.Violations
	if strings.TrimSpace(in.Name) == "" {
		v = append(v, apperrors.Field("name", apperrors.ErrInvalidInput))
	}
	if in.Gender == "" {
		in.Gender = GenderUnknown
	}
	if !in.Gender.Valid() {
		v = append(v, apperrors.Field("gender", apperrors.ErrInvalidSelection))
	}
	if in.BirthDate != nil && calendar.Date(*in.BirthDate).After(calendar.Date(s.now())) {
		v = append(v, apperrors.Field("birth_date", apperrors.ErrInvalidDateRange))
	}
	if in.Weight != nil && !in.Weight.IsPositive() {
		v = append(v, apperrors.Field("weight", apperrors.ErrInvalidAmount))
	}
	if in.SpeciesID <= 0 {
		v = append(v, apperrors.Field("species_id", apperrors.ErrInvalidSelection))
	} else {
		ok, err := s.repo.SpeciesExists(ctx, in.SpeciesID)
		if err != nil {
			return Pet{}, apperrors.FromStore("get species", err)
		}
		if !ok {
			v = append(v, apperrors.Field("species_id", apperrors.ErrInvalidSelection))
		}
	}
	if err := v.Err(); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		SpeciesID: in.SpeciesID,
		BreedID:   in.BreedID,
		Gender:    in.Gender,
		BirthDate: in.BirthDate,
		Weight:    in.Weight,
		Color:     strings.TrimSpace(in.Color),
		Microchip: strings.TrimSpace(in.Microchip),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, s.storeErr("create pet", err)
	}
	s.log.Info("pet created", map[string]any{"pet_id": p.ID, "owner_id": ownerID})
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, s.storeErr("get pet", err)
	}
	return p, nil
}

// GetOwned devuelve la mascota solo si es del owner.
func (s *Service) GetOwned(ctx context.Context, ownerID, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != ownerID {
		return Pet{}, apperrors.ErrOwnership
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storeErr("list pets", err)
	}
	return items, nil
}

// OwnerOf expone el owner de una mascota.
// Lo usan citas y hospedaje para el chequeo previo de ownership sin importar pets.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.GetOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID, ownerID); err != nil {
		return s.storeErr("delete pet", err)
	}
	s.log.Info("pet deleted", map[string]any{"pet_id": p.ID, "owner_id": ownerID})
	return nil
}

func (s *Service) storeErr(op string, err error) error {
	err = apperrors.FromStore(op, err)
	if errors.Is(err, apperrors.ErrPersistence) {
		s.log.Error(op+" failed", map[string]any{"error": err})
	}
	return err
}
