package memory

import (
	"context"
	"sort"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/catalog"
)

type catalogRepo struct {
	s *Store
}

func NewCatalogRepo(s *Store) catalog.Repository {
	return &catalogRepo{s: s}
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (catalog.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return catalog.Service{}, apperrors.ErrNotFound
	}
	return svc, nil
}

func (r *catalogRepo) ListActive(ctx context.Context) ([]catalog.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.Service, 0)
	for _, svc := range r.s.services {
		if svc.Active() {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
