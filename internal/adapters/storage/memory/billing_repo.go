package memory

import (
	"context"
	"sort"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"

	"github.com/shopspring/decimal"
)

type billingRepo struct {
	s *Store
}

func NewBillingRepo(s *Store) billing.Repository {
	return &billingRepo{s: s}
}

func (r *billingRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bills[id]
	if !ok {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	return r.hydrate(b), nil
}

func (r *billingRepo) List(ctx context.Context, ownerID string, f billing.ListFilter) ([]billing.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]billing.Bill, 0)
	for _, b := range r.s.bills {
		if b.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && b.PaymentStatus != f.Status {
			continue
		}
		if f.DateFrom != nil && b.BillDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && b.BillDate.After(*f.DateTo) {
			continue
		}
		b.Details = nil
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *billingRepo) Payments(ctx context.Context, billID string) ([]billing.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]billing.Payment(nil), r.s.payments[billID]...), nil
}

func (r *billingRepo) PaidTotal(ctx context.Context, billID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.paid(billID), nil
}

func (r *billingRepo) PaidTotals(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]decimal.Decimal)
	for id, b := range r.s.bills {
		if b.OwnerID == ownerID {
			out[id] = r.paid(id)
		}
	}
	return out, nil
}

func (r *billingRepo) ApplyPayment(ctx context.Context, billID, ownerID string, fn billing.PaymentFunc) (billing.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bills[billID]
	if !ok {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	if b.OwnerID != ownerID {
		return billing.Bill{}, apperrors.ErrOwnership
	}

	paid := r.paid(billID)
	p, err := fn(b, paid)
	if err != nil {
		return billing.Bill{}, err
	}

	r.s.payments[billID] = append(r.s.payments[billID], p)
	b.PaymentStatus = billing.StatusAfter(b.TotalAmount, paid.Add(p.Amount))
	b.PaymentMethod = p.Method
	b.UpdatedAt = p.PaidAt
	r.s.bills[billID] = b

	return r.hydrate(b), nil
}

// paid asume el lock tomado.
func (r *billingRepo) paid(billID string) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.s.payments[billID] {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// hydrate copia los detalles y agrega el nombre del servicio. Asume el lock tomado.
func (r *billingRepo) hydrate(b billing.Bill) billing.Bill {
	details := make([]billing.Detail, 0, len(b.Details))
	for _, d := range b.Details {
		if svc, ok := r.s.services[d.ServiceID]; ok {
			d.ServiceName = svc.Name
		}
		details = append(details, d)
	}
	b.Details = details
	return b
}
