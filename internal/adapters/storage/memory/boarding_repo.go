package memory

import (
	"context"
	"errors"
	"sort"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/boarding"
)

type boardingRepo struct {
	s *Store
}

func NewBoardingRepo(s *Store) boarding.Repository {
	return &boardingRepo{s: s}
}

func (r *boardingRepo) CreateWithBill(ctx context.Context, b boarding.Boarding, bill billing.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.boarding[b.ID]; exists {
		return errors.New("boarding already exists")
	}
	owner, ok := r.s.petOwner(b.PetID)
	if !ok {
		return apperrors.ErrInvalidSelection
	}
	if owner != b.OwnerID || bill.OwnerID != b.OwnerID {
		return apperrors.ErrOwnership
	}

	b.PetName = ""
	r.s.boarding[b.ID] = b
	r.s.insertBill(bill)
	return nil
}

func (r *boardingRepo) GetByID(ctx context.Context, id string) (boarding.Boarding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.boarding[id]
	if !ok {
		return boarding.Boarding{}, apperrors.ErrNotFound
	}
	return r.hydrate(b), nil
}

func (r *boardingRepo) List(ctx context.Context, ownerID string) ([]boarding.Boarding, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]boarding.Boarding, 0)
	for _, b := range r.s.boarding {
		if b.OwnerID == ownerID {
			out = append(out, r.hydrate(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return boarding.Less(out[i], out[j]) })
	return out, nil
}

func (r *boardingRepo) Transition(ctx context.Context, id, ownerID string, fn func(*boarding.Boarding) error) (boarding.Boarding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.boarding[id]
	if !ok {
		return boarding.Boarding{}, apperrors.ErrNotFound
	}
	if cur.OwnerID != ownerID {
		return boarding.Boarding{}, apperrors.ErrOwnership
	}

	b := r.hydrate(cur)
	if err := fn(&b); err != nil {
		return boarding.Boarding{}, err
	}

	stored := b
	stored.PetName = ""
	r.s.boarding[id] = stored
	return b, nil
}

// hydrate asume el lock tomado.
func (r *boardingRepo) hydrate(b boarding.Boarding) boarding.Boarding {
	if p, ok := r.s.pets[b.PetID]; ok {
		b.PetName = p.Name
	}
	return b
}
