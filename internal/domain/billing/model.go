package billing

import (
	"fmt"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/platform/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus se deriva de la suma de pagos contra el total.
// @Enum pending, partial, paid, cancelled
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPartial   PaymentStatus = "partial"
	StatusPaid      PaymentStatus = "paid"
	StatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Payable: solo pending y partial aceptan pagos.
func (s PaymentStatus) Payable() bool {
	return s == StatusPending || s == StatusPartial
}

// rank ordena los estados de cobro; un pago nunca baja el rank.
func (s PaymentStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusPartial:
		return 1
	case StatusPaid:
		return 2
	default:
		return -1
	}
}

// PaymentMethod
// @Enum cash, card, online, bank_transfer
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodOnline       PaymentMethod = "online"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MethodCash, MethodCard, MethodOnline, MethodBankTransfer:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, s)
}

// Bill es la factura de un owner. AppointmentID vacío = factura sin cita (hospedaje).
// Invariante: TotalAmount == Σ Details[i].Subtotal.
type Bill struct {
	ID            string
	OwnerID       string
	AppointmentID string

	BillDate      time.Time
	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	Notes         string

	Details []Detail

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail es una línea de factura. Referencia un servicio, un ítem de inventario
// o ninguno (solo descripción).
type Detail struct {
	ID              string
	BillID          string
	ServiceID       string
	InventoryItemID string

	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal

	// Solo lectura, viene del join con services.
	ServiceName string
}

// Payment es una fila de payment_history. Nunca se modifica ni se borra.
type Payment struct {
	ID      string
	BillID  string
	OwnerID string

	Amount decimal.Decimal
	Method PaymentMethod
	PaidAt time.Time
}

// Money redondea a 2 decimales.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ExactCents: d no tiene fracciones de centavo ("10.500" sí, "0.005" no).
// Los montos que entran por request se rechazan en vez de redondearse.
func ExactCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func NewDetail(serviceID, description string, qty int, unitPrice decimal.Decimal) Detail {
	unitPrice = Money(unitPrice)
	return Detail{
		ID:          uuid.NewString(),
		ServiceID:   serviceID,
		Description: description,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    Money(unitPrice.Mul(decimal.NewFromInt(int64(qty)))),
	}
}

// NewBill arma una factura pending con total = suma de subtotales.
func NewBill(ownerID string, now time.Time, notes string, details ...Detail) Bill {
	b := Bill{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		BillDate:      calendar.Date(now),
		TotalAmount:   decimal.Zero,
		PaymentStatus: StatusPending,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, d := range details {
		d.BillID = b.ID
		b.TotalAmount = b.TotalAmount.Add(d.Subtotal)
		b.Details = append(b.Details, d)
	}
	b.TotalAmount = Money(b.TotalAmount)
	return b
}

// StatusAfter calcula el estado a partir de lo pagado acumulado.
func StatusAfter(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Remaining = total - pagado. Nunca negativo.
func (b Bill) Remaining(paid decimal.Decimal) decimal.Decimal {
	r := b.TotalAmount.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return Money(r)
}

