package boarding

import (
	"context"

	"pet-care-center/internal/domain/billing"
)

type Repository interface {
	// CreateWithBill inserta la estadía, la factura y su detalle en una sola
	// transacción, volviendo a verificar que la mascota sea del owner.
	CreateWithBill(ctx context.Context, b Boarding, bill billing.Bill) error
	GetByID(ctx context.Context, id string) (Boarding, error)
	// List ordena según Less.
	List(ctx context.Context, ownerID string) ([]Boarding, error)
	// Transition bloquea la estadía, verifica owner y aplica fn.
	Transition(ctx context.Context, id, ownerID string, fn func(*Boarding) error) (Boarding, error)
}
