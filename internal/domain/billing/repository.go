package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ListFilter struct {
	Status   PaymentStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// PaymentFunc valida el pago contra la factura y la suma pagada, ambas leídas
// dentro de la transacción. Si devuelve error no se escribe nada.
type PaymentFunc func(b Bill, paid decimal.Decimal) (Payment, error)

type Repository interface {
	// GetByID incluye Details.
	GetByID(ctx context.Context, id string) (Bill, error)
	List(ctx context.Context, ownerID string, f ListFilter) ([]Bill, error)

	Payments(ctx context.Context, billID string) ([]Payment, error)
	PaidTotal(ctx context.Context, billID string) (decimal.Decimal, error)
	// PaidTotals devuelve lo pagado por factura para todas las del owner.
	PaidTotals(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error)

	// ApplyPayment bloquea la factura, verifica owner, llama fn y, si fn acepta,
	// inserta el pago y actualiza payment_status/payment_method. Todo o nada.
	ApplyPayment(ctx context.Context, billID, ownerID string, fn PaymentFunc) (Bill, error)
}
