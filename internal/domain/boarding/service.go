package boarding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/platform/calendar"
	"pet-care-center/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DetailDescription = "Pet Boarding Service"

// PetOwnership lo implementa pets.Service.
type PetOwnership interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type Service struct {
	repo Repository
	pets PetOwnership
	now  func() time.Time
	log  logger.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(repo Repository, pets PetOwnership, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type BookInput struct {
	PetID               string
	CheckIn             time.Time
	CheckOut            time.Time
	DailyRate           decimal.Decimal
	SpecialInstructions string
}

// Book reserva la estadía y genera su factura (pending) en la misma transacción.
func (s *Service) Book(ctx context.Context, ownerID string, in BookInput) (Boarding, billing.Bill, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Boarding{}, billing.Bill{}, apperrors.ErrInvalidInput
	}

	var v apperrors.Violations

	petID := strings.TrimSpace(in.PetID)
	owner, err := s.pets.OwnerOf(ctx, petID)
	switch {
	case petID == "", errors.Is(err, apperrors.ErrNotFound):
		v = append(v, apperrors.Field("pet_id", apperrors.ErrInvalidSelection))
	case err != nil:
		return Boarding{}, billing.Bill{}, s.storeErr("get pet", err)
	case owner != ownerID:
		v = append(v, apperrors.Field("pet_id", apperrors.ErrOwnership))
	}

	now := s.now()
	checkIn := calendar.Date(in.CheckIn)
	checkOut := calendar.Date(in.CheckOut)
	if checkIn.Before(calendar.Date(now)) {
		v = append(v, apperrors.Field("check_in_date", apperrors.ErrPastDate))
	}
	if !checkOut.After(checkIn) {
		v = append(v, apperrors.Field("check_out_date", apperrors.ErrInvalidDateRange))
	}
	rate := billing.Money(in.DailyRate)
	if !in.DailyRate.IsPositive() || !billing.ExactCents(in.DailyRate) {
		v = append(v, apperrors.Field("daily_rate", apperrors.ErrInvalidAmount))
	}

	if err := v.Err(); err != nil {
		return Boarding{}, billing.Bill{}, err
	}

	b := Boarding{
		ID:                  uuid.NewString(),
		PetID:               petID,
		OwnerID:             ownerID,
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		DailyRate:           rate,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		Status:              StatusBooked,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	days := b.Days()
	notes := fmt.Sprintf("Boarding for %d days from %s to %s",
		days, checkIn.Format(calendar.DateLayout), checkOut.Format(calendar.DateLayout))
	bill := billing.NewBill(ownerID, now, notes, billing.NewDetail("", DetailDescription, days, rate))

	if err := s.repo.CreateWithBill(ctx, b, bill); err != nil {
		return Boarding{}, billing.Bill{}, s.storeErr("create boarding", err)
	}

	s.log.Info("boarding booked", map[string]any{
		"boarding_id": b.ID,
		"bill_id":     bill.ID,
		"owner_id":    ownerID,
		"days":        days,
		"total":       bill.TotalAmount.StringFixed(2),
	})
	return b, bill, nil
}

// Cancel solo procede desde booked; una estadía en curso no se cancela.
// La factura asociada no se toca.
func (s *Service) Cancel(ctx context.Context, ownerID, id string) (Boarding, error) {
	ownerID = strings.TrimSpace(ownerID)
	id = strings.TrimSpace(id)
	if ownerID == "" || id == "" {
		return Boarding{}, apperrors.ErrInvalidInput
	}

	b, err := s.repo.Transition(ctx, id, ownerID, func(b *Boarding) error {
		if !b.Status.CanTransition(StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, b.Status, StatusCancelled)
		}
		b.Status = StatusCancelled
		b.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return Boarding{}, s.storeErr("cancel boarding", err)
	}

	s.log.Info("boarding cancelled", map[string]any{"boarding_id": id, "owner_id": ownerID})
	return b, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Boarding, error) {
	b, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Boarding{}, s.storeErr("get boarding", err)
	}
	if b.OwnerID != ownerID {
		return Boarding{}, apperrors.ErrOwnership
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Boarding, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.ErrInvalidInput
	}
	items, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, s.storeErr("list boarding", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return Less(items[i], items[j]) })
	return items, nil
}

// Grouped reparte las estadías del owner según GroupAt(hoy).
// Las cuatro claves siempre están presentes.
func (s *Service) Grouped(ctx context.Context, ownerID string) (map[Group][]Boarding, error) {
	items, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	out := map[Group][]Boarding{
		GroupActive:    {},
		GroupUpcoming:  {},
		GroupPast:      {},
		GroupCancelled: {},
	}
	for _, b := range items {
		g := b.GroupAt(today)
		out[g] = append(out[g], b)
	}
	return out, nil
}

func (s *Service) storeErr(op string, err error) error {
	err = apperrors.FromStore(op, err)
	if errors.Is(err, apperrors.ErrPersistence) {
		s.log.Error(op+" failed", map[string]any{"error": err})
	}
	return err
}
