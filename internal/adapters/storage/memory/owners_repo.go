package memory

import (
	"context"
	"errors"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/owners"
)

type ownerRepo struct {
	s *Store
}

func NewOwnerRepo(s *Store) owners.Repository {
	return &ownerRepo{s: s}
}

func (r *ownerRepo) Create(ctx context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.owners[o.ID]; exists {
		return errors.New("owner already exists")
	}
	for _, cur := range r.s.owners {
		if cur.UserID == o.UserID {
			return errors.New("owner already exists for user")
		}
	}
	r.s.owners[o.ID] = o
	return nil
}

func (r *ownerRepo) Update(ctx context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.owners[o.ID]; !exists {
		return apperrors.ErrNotFound
	}
	r.s.owners[o.ID] = o
	return nil
}

func (r *ownerRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.owners[id]
	if !ok {
		return owners.Owner{}, apperrors.ErrNotFound
	}
	return o, nil
}

func (r *ownerRepo) GetByUserID(ctx context.Context, userID string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.owners {
		if o.UserID == userID {
			return o, nil
		}
	}
	return owners.Owner{}, apperrors.ErrNotFound
}
