package memory

import (
	"context"
	"errors"
	"sort"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/appointments"
	"pet-care-center/internal/domain/billing"

	"github.com/shopspring/decimal"
)

type appointmentRepo struct {
	s *Store
}

func NewAppointmentRepo(s *Store) appointments.Repository {
	return &appointmentRepo{s: s}
}

func (r *appointmentRepo) Create(ctx context.Context, ownerID string, a appointments.Appointment, bill *billing.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.appointments[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	owner, ok := r.s.petOwner(a.PetID)
	if !ok {
		return apperrors.ErrInvalidSelection
	}
	if owner != ownerID {
		return apperrors.ErrOwnership
	}
	if svc, ok := r.s.services[a.ServiceID]; !ok || !svc.Active() {
		return apperrors.ErrInvalidSelection
	}

	r.s.appointments[a.ID] = stripAppointment(a)
	if bill != nil {
		r.s.insertBill(*bill)
	}
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return appointments.Appointment{}, apperrors.ErrNotFound
	}
	return r.hydrate(a), nil
}

func (r *appointmentRepo) List(ctx context.Context, ownerID string, f appointments.ListFilter) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.s.appointments {
		a = r.hydrate(a)
		if a.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.PetID != "" && a.PetID != f.PetID {
			continue
		}
		if f.ServiceID != "" && a.ServiceID != f.ServiceID {
			continue
		}
		if f.DateFrom != nil && a.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && a.Date.After(*f.DateTo) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (r *appointmentRepo) CountByStatus(ctx context.Context, ownerID string) (map[appointments.Status]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := map[appointments.Status]int{}
	for _, a := range r.s.appointments {
		if owner, _ := r.s.petOwner(a.PetID); owner == ownerID {
			out[a.Status]++
		}
	}
	return out, nil
}

func (r *appointmentRepo) Transition(ctx context.Context, id, ownerID string, fn func(*appointments.Appointment) error) (appointments.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.appointments[id]
	if !ok {
		return appointments.Appointment{}, apperrors.ErrNotFound
	}
	a := r.hydrate(cur)
	if a.OwnerID != ownerID {
		return appointments.Appointment{}, apperrors.ErrOwnership
	}
	if err := fn(&a); err != nil {
		return appointments.Appointment{}, err
	}

	r.s.appointments[id] = stripAppointment(a)
	return a, nil
}

func (r *appointmentRepo) CreateBill(ctx context.Context, id, ownerID string, fn appointments.BillFunc) (billing.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.appointments[id]
	if !ok {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	a := r.hydrate(cur)
	if a.OwnerID != ownerID {
		return billing.Bill{}, apperrors.ErrOwnership
	}
	if a.BillID != "" {
		return billing.Bill{}, apperrors.ErrAlreadyBilled
	}

	b, err := fn(a)
	if err != nil {
		return billing.Bill{}, err
	}
	r.s.insertBill(b)
	return b, nil
}

// hydrate llena los campos de solo lectura. Asume el lock tomado.
func (r *appointmentRepo) hydrate(a appointments.Appointment) appointments.Appointment {
	if p, ok := r.s.pets[a.PetID]; ok {
		a.OwnerID = p.OwnerID
		a.PetName = p.Name
	}
	if svc, ok := r.s.services[a.ServiceID]; ok {
		a.ServiceName = svc.Name
		a.ServicePrice = svc.Price
	}
	for _, b := range r.s.bills {
		if b.AppointmentID == a.ID {
			a.BillID = b.ID
			break
		}
	}
	return a
}

func stripAppointment(a appointments.Appointment) appointments.Appointment {
	a.OwnerID, a.PetName, a.ServiceName, a.BillID = "", "", "", ""
	a.ServicePrice = decimal.Decimal{}
	return a
}
