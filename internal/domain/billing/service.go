package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PaymentInput struct {
	Amount decimal.Decimal
	Method string
}

// Statement es una factura con su estado de cobro.
type Statement struct {
	Bill
	Payments  []Payment
	Paid      decimal.Decimal
	Remaining decimal.Decimal
}

type Summary struct {
	Count       int
	TotalBilled decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
	ByStatus    map[PaymentStatus]int
}

// RecordPayment registra un pago parcial o total.
// Las validaciones corren antes de tocar el store y se repiten dentro de la
// transacción con la factura bloqueada.
func (s *Service) RecordPayment(ctx context.Context, ownerID, billID string, in PaymentInput) (Bill, Payment, error) {
	ownerID = strings.TrimSpace(ownerID)
	billID = strings.TrimSpace(billID)
	if ownerID == "" || billID == "" {
		return Bill{}, Payment{}, apperrors.ErrInvalidInput
	}

	amount := in.Amount

	current, err := s.owned(ctx, ownerID, billID)
	if err != nil {
		return Bill{}, Payment{}, err
	}
	paid, err := s.repo.PaidTotal(ctx, current.ID)
	if err != nil {
		return Bill{}, Payment{}, s.storeErr("sum payments", err)
	}
	if _, err := checkPayment(current, paid, amount, in.Method); err != nil {
		return Bill{}, Payment{}, err
	}

	var p Payment
	updated, err := s.repo.ApplyPayment(ctx, current.ID, current.OwnerID, func(b Bill, paid decimal.Decimal) (Payment, error) {
		method, err := checkPayment(b, paid, amount, in.Method)
		if err != nil {
			return Payment{}, err
		}
		p = Payment{
			ID:      uuid.NewString(),
			BillID:  b.ID,
			OwnerID: ownerID,
			Amount:  Money(amount),
			Method:  method,
			PaidAt:  s.now(),
		}
		return p, nil
	})
	if err != nil {
		return Bill{}, Payment{}, s.storeErr("apply payment", err)
	}

	s.log.Info("payment recorded", map[string]any{
		"bill_id":  updated.ID,
		"owner_id": ownerID,
		"amount":   amount.StringFixed(2),
		"method":   string(p.Method),
		"status":   string(updated.PaymentStatus),
	})
	return updated, p, nil
}

// checkPayment junta todas las fallas del pago; nil si es válido.
func checkPayment(b Bill, paid, amount decimal.Decimal, method string) (PaymentMethod, error) {
	var v apperrors.Violations

	if !b.PaymentStatus.Payable() {
		v = append(v, apperrors.Field("bill", apperrors.ErrBillNotPayable))
	}
	switch {
	case !amount.IsPositive(), !ExactCents(amount):
		v = append(v, apperrors.Field("amount", apperrors.ErrInvalidAmount))
	case b.PaymentStatus.Payable() && amount.GreaterThan(b.Remaining(paid)):
		v = append(v, apperrors.Field("amount", apperrors.ErrOverpayment))
	}
	m, err := ParsePaymentMethod(method)
	if err != nil {
		v = append(v, apperrors.Field("payment_method", apperrors.ErrInvalidMethod))
	}

	return m, v.Err()
}

// RemainingBalance = total - Σ pagos. Sin pagos devuelve el total.
func (s *Service) RemainingBalance(ctx context.Context, billID string) (decimal.Decimal, error) {
	b, err := s.repo.GetByID(ctx, strings.TrimSpace(billID))
	if err != nil {
		return decimal.Zero, s.storeErr("get bill", err)
	}
	paid, err := s.repo.PaidTotal(ctx, b.ID)
	if err != nil {
		return decimal.Zero, s.storeErr("sum payments", err)
	}
	return b.Remaining(paid), nil
}

// Balance es RemainingBalance restringido a las facturas del owner.
func (s *Service) Balance(ctx context.Context, ownerID, billID string) (Bill, decimal.Decimal, error) {
	b, err := s.owned(ctx, ownerID, billID)
	if err != nil {
		return Bill{}, decimal.Zero, err
	}
	remaining, err := s.RemainingBalance(ctx, b.ID)
	if err != nil {
		return Bill{}, decimal.Zero, err
	}
	return b, remaining, nil
}

// Get devuelve la factura del owner con detalles, pagos y saldo.
func (s *Service) Get(ctx context.Context, ownerID, billID string) (Statement, error) {
	b, err := s.owned(ctx, ownerID, billID)
	if err != nil {
		return Statement{}, err
	}
	payments, err := s.repo.Payments(ctx, b.ID)
	if err != nil {
		return Statement{}, s.storeErr("list payments", err)
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return Statement{
		Bill:      b,
		Payments:  payments,
		Paid:      Money(paid),
		Remaining: b.Remaining(paid),
	}, nil
}

// List ordena por bill_date desc. Payments queda vacío; Paid/Remaining sí se calculan.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter) ([]Statement, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.ErrInvalidInput
	}

	var v apperrors.Violations
	if f.Status != "" && !f.Status.Valid() {
		v = append(v, apperrors.Field("status", apperrors.ErrInvalidSelection))
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		v = append(v, apperrors.Field("date_to", apperrors.ErrInvalidDateRange))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	bills, err := s.repo.List(ctx, ownerID, f)
	if err != nil {
		return nil, s.storeErr("list bills", err)
	}
	paid, err := s.repo.PaidTotals(ctx, ownerID)
	if err != nil {
		return nil, s.storeErr("sum payments", err)
	}

	out := make([]Statement, 0, len(bills))
	for _, b := range bills {
		p := paid[b.ID]
		out = append(out, Statement{Bill: b, Paid: Money(p), Remaining: b.Remaining(p)})
	}
	return out, nil
}

// Summary agrega las facturas del owner. Las canceladas cuentan en ByStatus
// pero no en montos.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	items, err := s.List(ctx, ownerID, ListFilter{})
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		TotalBilled: decimal.Zero,
		TotalPaid:   decimal.Zero,
		Outstanding: decimal.Zero,
		ByStatus:    map[PaymentStatus]int{},
	}
	for _, st := range items {
		out.Count++
		out.ByStatus[st.PaymentStatus]++
		if st.PaymentStatus == StatusCancelled {
			continue
		}
		out.TotalBilled = out.TotalBilled.Add(st.TotalAmount)
		out.TotalPaid = out.TotalPaid.Add(st.Paid)
		out.Outstanding = out.Outstanding.Add(st.Remaining)
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, ownerID, billID string) (Bill, error) {
	ownerID = strings.TrimSpace(ownerID)
	billID = strings.TrimSpace(billID)
	if ownerID == "" || billID == "" {
		return Bill{}, apperrors.ErrInvalidInput
	}

	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return Bill{}, s.storeErr("get bill", err)
	}
	if b.OwnerID != ownerID {
		return Bill{}, apperrors.ErrOwnership
	}
	return b, nil
}

func (s *Service) storeErr(op string, err error) error {
	err = apperrors.FromStore(op, err)
	if errors.Is(err, apperrors.ErrPersistence) {
		s.log.Error(op+" failed", map[string]any{"error": err})
	}
	return err
}
