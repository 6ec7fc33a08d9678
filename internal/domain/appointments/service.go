package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/catalog"
	"pet-care-center/internal/platform/calendar"
	"pet-care-center/internal/platform/logger"

	"github.com/google/uuid"
)

// PetOwnership lo implementa pets.Service.
type PetOwnership interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// ServiceCatalog lo implementa catalog.Directory.
type ServiceCatalog interface {
	GetByID(ctx context.Context, id string) (catalog.Service, error)
}

type Service struct {
	repo     Repository
	pets     PetOwnership
	services ServiceCatalog

	now      func() time.Time
	log      logger.Logger
	hours    calendar.Window
	autoBill bool
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithBusinessHours(w calendar.Window) Option {
	return func(s *Service) { s.hours = w }
}

// WithAutoBilling hace que Book cree también la factura de la cita.
// Apagado por defecto: las citas se facturan con Bill.
func WithAutoBilling(on bool) Option {
	return func(s *Service) { s.autoBill = on }
}

func NewService(repo Repository, pets PetOwnership, services ServiceCatalog, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		pets:     pets,
		services: services,
		now:      time.Now,
		log:      logger.Nop(),
		hours:    calendar.DefaultBusinessHours,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type BookInput struct {
	PetID     string
	ServiceID string
	Date      time.Time
	Time      string // HH:MM, 24h
	Notes     string
}

// Book agenda una cita en estado scheduled.
// No se controla doble reserva del mismo horario.
func (s *Service) Book(ctx context.Context, ownerID string, in BookInput) (Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Appointment{}, apperrors.ErrInvalidInput
	}

	var v apperrors.Violations

	if err := s.checkPet(ctx, ownerID, in.PetID); err != nil {
		if !apperrors.IsDomain(err) {
			return Appointment{}, s.storeErr("get pet", err)
		}
		v = append(v, err)
	}

	svc, err := s.services.GetByID(ctx, strings.TrimSpace(in.ServiceID))
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		v = append(v, apperrors.Field("service_id", apperrors.ErrInvalidSelection))
	case err != nil:
		return Appointment{}, s.storeErr("get service", err)
	case !svc.Active():
		v = append(v, apperrors.Field("service_id", apperrors.ErrInvalidSelection))
	}

	now := s.now()
	date := calendar.Date(in.Date)
	if date.Before(calendar.Date(now)) {
		v = append(v, apperrors.Field("date", apperrors.ErrPastDate))
	}

	tod, err := calendar.ParseTimeOfDay(strings.TrimSpace(in.Time))
	switch {
	case err != nil:
		v = append(v, apperrors.Field("time", apperrors.ErrInvalidTimeFormat))
	case !s.hours.Contains(tod):
		v = append(v, apperrors.Field("time", apperrors.ErrOutsideBusinessHours))
	}

	if err := v.Err(); err != nil {
		return Appointment{}, err
	}

	a := Appointment{
		ID:           uuid.NewString(),
		PetID:        strings.TrimSpace(in.PetID),
		ServiceID:    svc.ID,
		Date:         date,
		Time:         tod,
		Status:       StatusScheduled,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
		OwnerID:      ownerID,
		ServiceName:  svc.Name,
		ServicePrice: svc.Price,
	}

	var bill *billing.Bill
	if s.autoBill {
		b := newAppointmentBill(ownerID, now, a.ID, svc)
		bill = &b
		a.BillID = b.ID
	}

	if err := s.repo.Create(ctx, ownerID, a, bill); err != nil {
		return Appointment{}, s.storeErr("create appointment", err)
	}

	s.log.Info("appointment booked", map[string]any{
		"appointment_id": a.ID,
		"owner_id":       ownerID,
		"pet_id":         a.PetID,
		"date":           a.Date.Format(calendar.DateLayout),
		"time":           a.Time.String(),
		"billed":         bill != nil,
	})
	return a, nil
}

func (s *Service) checkPet(ctx context.Context, ownerID, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return apperrors.Field("pet_id", apperrors.ErrInvalidSelection)
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.Field("pet_id", apperrors.ErrInvalidSelection)
	case err != nil:
		return err
	case owner != ownerID:
		return apperrors.Field("pet_id", apperrors.ErrOwnership)
	}
	return nil
}

// Cancel pasa la cita a cancelled desde scheduled o confirmed.
// Cancelar dos veces falla: cancelled es terminal.
func (s *Service) Cancel(ctx context.Context, ownerID, id string) (Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	id = strings.TrimSpace(id)
	if ownerID == "" || id == "" {
		return Appointment{}, apperrors.ErrInvalidInput
	}

	a, err := s.repo.Transition(ctx, id, ownerID, func(a *Appointment) error {
		if !a.Status.CanTransition(StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, a.Status, StatusCancelled)
		}
		a.Status = StatusCancelled
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return Appointment{}, s.storeErr("cancel appointment", err)
	}

	s.log.Info("appointment cancelled", map[string]any{"appointment_id": id, "owner_id": ownerID})
	return a, nil
}

// Bill factura una cita: una línea con el servicio, cantidad 1.
func (s *Service) Bill(ctx context.Context, ownerID, id string) (billing.Bill, error) {
	ownerID = strings.TrimSpace(ownerID)
	id = strings.TrimSpace(id)
	if ownerID == "" || id == "" {
		return billing.Bill{}, apperrors.ErrInvalidInput
	}

	b, err := s.repo.CreateBill(ctx, id, ownerID, func(a Appointment) (billing.Bill, error) {
		if a.Status == StatusCancelled {
			return billing.Bill{}, fmt.Errorf("%w: appointment is cancelled", apperrors.ErrInvalidTransition)
		}
		return newAppointmentBill(ownerID, s.now(), a.ID, catalog.Service{
			ID:    a.ServiceID,
			Name:  a.ServiceName,
			Price: a.ServicePrice,
		}), nil
	})
	if err != nil {
		return billing.Bill{}, s.storeErr("bill appointment", err)
	}

	s.log.Info("appointment billed", map[string]any{
		"appointment_id": id,
		"bill_id":        b.ID,
		"total":          b.TotalAmount.StringFixed(2),
	})
	return b, nil
}

func newAppointmentBill(ownerID string, now time.Time, appointmentID string, svc catalog.Service) billing.Bill {
	b := billing.NewBill(ownerID, now, "Appointment: "+svc.Name,
		billing.NewDetail(svc.ID, svc.Name, 1, svc.Price))
	b.AppointmentID = appointmentID
	return b
}

// Get devuelve la cita solo si la mascota es del owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Appointment{}, s.storeErr("get appointment", err)
	}
	if a.OwnerID != ownerID {
		return Appointment{}, apperrors.ErrOwnership
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Appointment, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.ErrInvalidInput
	}

	var v apperrors.Violations
	if f.Status != "" && !f.Status.Valid() {
		v = append(v, apperrors.Field("status", apperrors.ErrInvalidSelection))
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		v = append(v, apperrors.Field("date_to", apperrors.ErrInvalidDateRange))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, ownerID, f)
	if err != nil {
		return nil, s.storeErr("list appointments", err)
	}
	return items, nil
}

type Counts struct {
	All      int
	ByStatus map[Status]int
}

// Counts siempre trae las cuatro claves, aunque sean cero.
func (s *Service) Counts(ctx context.Context, ownerID string) (Counts, error) {
	byStatus, err := s.repo.CountByStatus(ctx, ownerID)
	if err != nil {
		return Counts{}, s.storeErr("count appointments", err)
	}
	out := Counts{ByStatus: make(map[Status]int, len(Statuses))}
	for _, st := range Statuses {
		out.ByStatus[st] = byStatus[st]
		out.All += byStatus[st]
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
