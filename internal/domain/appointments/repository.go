package appointments

import (
	"context"
	"time"

	"pet-care-center/internal/domain/billing"
)

type ListFilter struct {
	Status    Status
	PetID     string
	ServiceID string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// BillFunc arma la factura de una cita leída dentro de la transacción.
type BillFunc func(a Appointment) (billing.Bill, error)

type Repository interface {
	// Create vuelve a verificar dentro de la transacción que la mascota sea de
	// ownerID y que el servicio siga activo. Si bill != nil se inserta junto
	// con la cita.
	Create(ctx context.Context, ownerID string, a Appointment, bill *billing.Bill) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	// List ordena por fecha desc, hora desc.
	List(ctx context.Context, ownerID string, f ListFilter) ([]Appointment, error)
	CountByStatus(ctx context.Context, ownerID string) (map[Status]int, error)

	// Transition bloquea la cita, verifica owner y aplica fn. Si fn devuelve
	// error no se escribe nada.
	Transition(ctx context.Context, id, ownerID string, fn func(*Appointment) error) (Appointment, error)

	// CreateBill bloquea la cita, verifica owner, rechaza con ErrAlreadyBilled
	// si ya tiene factura e inserta la que devuelva fn.
	CreateBill(ctx context.Context, id, ownerID string, fn BillFunc) (billing.Bill, error)
}
