package catalog

import (
	"context"
	"strings"

	"pet-care-center/internal/apperrors"
)

// Directory es la capa de casos de uso del catálogo. Se llama así (y no Service)
// porque Service ya nombra al ítem del catálogo.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) GetByID(ctx context.Context, id string) (Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Service{}, apperrors.ErrNotFound
	}
	return d.repo.GetByID(ctx, id)
}

func (d *Directory) ListActive(ctx context.Context) ([]Service, error) {
	return d.repo.ListActive(ctx)
}

// BoardingRates devuelve los servicios activos cuyo nombre empieza con "Boarding".
func (d *Directory) BoardingRates(ctx context.Context) ([]Service, error) {
	items, err := d.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Service, 0)
	for _, s := range items {
		if s.IsBoardingRate() {
			out = append(out, s)
		}
	}
	return out, nil
}
