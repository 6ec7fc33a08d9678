package catalog

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Service, error)
	ListActive(ctx context.Context) ([]Service, error)
}
