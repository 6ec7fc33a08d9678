package billing

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"pet-care-center/internal/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	bills    map[string]Bill
	payments map[string][]Payment
	failNext error
}

func newTestRepo() *testRepo {
	return &testRepo{bills: map[string]Bill{}, payments: map[string][]Payment{}}
}

func (r *testRepo) put(b Bill) Bill {
	r.bills[b.ID] = b
	return b
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return Bill{}, apperrors.ErrNotFound
	}
	return b, nil
}

func (r *testRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Bill, error) {
	out := make([]Bill, 0)
	for _, b := range r.bills {
		if b.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && b.PaymentStatus != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillDate.After(out[j].BillDate) })
	return out, nil
}

func (r *testRepo) Payments(ctx context.Context, billID string) ([]Payment, error) {
	return r.payments[billID], nil
}

func (r *testRepo) PaidTotal(ctx context.Context, billID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments[billID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (r *testRepo) PaidTotals(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for id, b := range r.bills {
		if b.OwnerID == ownerID {
			out[id], _ = r.PaidTotal(ctx, id)
		}
	}
	return out, nil
}

func (r *testRepo) ApplyPayment(ctx context.Context, billID, ownerID string, fn PaymentFunc) (Bill, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return Bill{}, err
	}
	b, ok := r.bills[billID]
	if !ok {
		return Bill{}, apperrors.ErrNotFound
	}
	if b.OwnerID != ownerID {
		return Bill{}, apperrors.ErrOwnership
	}
	paid, _ := r.PaidTotal(ctx, billID)
	p, err := fn(b, paid)
	if err != nil {
		return Bill{}, err
	}
	r.payments[billID] = append(r.payments[billID], p)
	b.PaymentStatus = StatusAfter(b.TotalAmount, paid.Add(p.Amount))
	b.PaymentMethod = p.Method
	r.bills[billID] = b
	return b, nil
}

var testNow = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	return NewService(repo, WithClock(func() time.Time { return testNow }))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boardingBill(ownerID string) Bill {
	return NewBill(ownerID, testNow, "Boarding for 3 days from 2025-01-10 to 2025-01-13",
		NewDetail("", "Pet Boarding Service", 3, dec("1000")))
}

// -------------------------
// Tests
// -------------------------

func TestNewBill_TotalIsSumOfSubtotals(t *testing.T) {
	b := NewBill("o1", testNow, "",
		NewDetail("s1", "Consulta", 1, dec("1500.505")),
		NewDetail("", "Vacuna", 2, dec("300")),
	)

	assert.Equal(t, StatusPending, b.PaymentStatus)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), b.BillDate)
	require.Len(t, b.Details, 2)
	assert.True(t, b.Details[0].Subtotal.Equal(dec("1500.51")))
	assert.True(t, b.TotalAmount.Equal(dec("2100.51")))
	for _, d := range b.Details {
		assert.Equal(t, b.ID, d.BillID)
	}
}

func TestStatusAfter(t *testing.T) {
	total := dec("3000")
	assert.Equal(t, StatusPending, StatusAfter(total, decimal.Zero))
	assert.Equal(t, StatusPartial, StatusAfter(total, dec("0.01")))
	assert.Equal(t, StatusPartial, StatusAfter(total, dec("2999.99")))
	assert.Equal(t, StatusPaid, StatusAfter(total, dec("3000.00")))
}

func TestRecordPayment_PartialThenPaidThenNotPayable(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	b := repo.put(boardingBill("o1"))

	remaining, err := svc.RemainingBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("3000")))

	updated, p, err := svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("1000"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, updated.PaymentStatus)
	assert.Equal(t, MethodCash, updated.PaymentMethod)
	assert.Equal(t, testNow, p.PaidAt)

	remaining, err = svc.RemainingBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("2000")))

	updated, _, err = svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("2000"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.PaymentStatus)

	remaining, err = svc.RemainingBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	_, _, err = svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("1"), Method: "cash"})
	assert.ErrorIs(t, err, apperrors.ErrBillNotPayable)
	assert.Len(t, repo.payments[b.ID], 2)
}

func TestRecordPayment_OverpaymentLeavesBillUnchanged(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	b := repo.put(boardingBill("o1"))

	_, _, err := svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("1000"), Method: "card"})
	require.NoError(t, err)
	before := repo.bills[b.ID]

	_, _, err = svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("2500"), Method: "cash"})
	assert.ErrorIs(t, err, apperrors.ErrOverpayment)
	assert.Equal(t, before, repo.bills[b.ID])
	assert.Len(t, repo.payments[b.ID], 1)
}

func TestRecordPayment_ReportsEveryViolation(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	b := repo.put(boardingBill("o1"))

	_, _, err := svc.RecordPayment(context.Background(), "o1", b.ID, PaymentInput{Amount: dec("0"), Method: "bitcoin"})

	var v apperrors.Violations
	require.True(t, errors.As(err, &v))
	assert.Len(t, v, 2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.ErrorIs(t, err, apperrors.ErrInvalidMethod)
	assert.Empty(t, repo.payments[b.ID])
}

func TestRecordPayment_RejectsFractionsOfCent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	b := repo.put(NewBill("o1", testNow, "", NewDetail("", "x", 1, dec("10"))))

	for _, amount := range []string{"0.005", "9.994", "9.999"} {
		_, _, err := svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec(amount), Method: "cash"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, amount)
	}
	assert.Empty(t, repo.payments[b.ID])
	assert.Equal(t, StatusPending, repo.bills[b.ID].PaymentStatus)

	updated, p, err := svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("10.000"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.PaymentStatus)
	assert.True(t, p.Amount.Equal(dec("10")))
}

func TestExactCents(t *testing.T) {
	assert.True(t, ExactCents(dec("10")))
	assert.True(t, ExactCents(dec("10.5")))
	assert.True(t, ExactCents(dec("10.500")))
	assert.False(t, ExactCents(dec("0.005")))
	assert.False(t, ExactCents(dec("9.994")))
}

func TestBalance(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	b := repo.put(boardingBill("o1"))

	_, _, err := svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: dec("1250.50"), Method: "card"})
	require.NoError(t, err)

	got, remaining, err := svc.Balance(ctx, "o1", " "+b.ID+" ")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, StatusPartial, got.PaymentStatus)
	assert.True(t, remaining.Equal(dec("1749.50")), remaining.String())

	_, _, err = svc.Balance(ctx, "o2", b.ID)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)

	_, _, err = svc.Balance(ctx, "o1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordPayment_ForeignBill(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	b := repo.put(boardingBill("o1"))

	_, _, err := svc.RecordPayment(context.Background(), "o2", b.ID, PaymentInput{Amount: dec("10"), Method: "cash"})
	assert.ErrorIs(t, err, apperrors.ErrOwnership)
}

func TestRecordPayment_CancelledBillIsNotPayable(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	b := boardingBill("o1")
	b.PaymentStatus = StatusCancelled
	repo.put(b)

	_, _, err := svc.RecordPayment(context.Background(), "o1", b.ID, PaymentInput{Amount: dec("10"), Method: "cash"})
	assert.ErrorIs(t, err, apperrors.ErrBillNotPayable)
}

func TestRecordPayment_StoreFailureIsPersistenceError(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	b := repo.put(boardingBill("o1"))
	repo.failNext = errors.New("tx aborted")

	_, _, err := svc.RecordPayment(context.Background(), "o1", b.ID, PaymentInput{Amount: dec("10"), Method: "cash"})
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Empty(t, repo.payments[b.ID])
}

// Cualquier secuencia de pagos: lo pagado nunca supera el total y el estado
// nunca retrocede.
func TestRecordPayment_SequencesAreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for run := 0; run < 50; run++ {
		repo := newTestRepo()
		svc := newTestService(repo)
		b := repo.put(NewBill("o1", testNow, "", NewDetail("", "x", 1+rng.Intn(5), decimal.New(int64(100+rng.Intn(5000)), -2))))

		rank := StatusPending.rank()
		for i := 0; i < 10; i++ {
			amount := decimal.New(int64(rng.Intn(4000)), -2)
			_, _, _ = svc.RecordPayment(ctx, "o1", b.ID, PaymentInput{Amount: amount, Method: "online"})

			cur := repo.bills[b.ID]
			paid, _ := repo.PaidTotal(ctx, b.ID)
			require.True(t, paid.LessThanOrEqual(cur.TotalAmount), "paid %s > total %s", paid, cur.TotalAmount)
			require.GreaterOrEqual(t, cur.PaymentStatus.rank(), rank)
			rank = cur.PaymentStatus.rank()
		}
	}
}

func TestGetAndSummary(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	b1 := repo.put(boardingBill("o1"))
	b2 := repo.put(NewBill("o1", testNow.AddDate(0, 0, -3), "", NewDetail("s1", "Consulta", 1, dec("500"))))
	cancelled := NewBill("o1", testNow, "", NewDetail("", "x", 1, dec("999")))
	cancelled.PaymentStatus = StatusCancelled
	repo.put(cancelled)
	repo.put(boardingBill("o2"))

	_, _, err := svc.RecordPayment(ctx, "o1", b1.ID, PaymentInput{Amount: dec("1000"), Method: "cash"})
	require.NoError(t, err)

	st, err := svc.Get(ctx, "o1", b1.ID)
	require.NoError(t, err)
	assert.Len(t, st.Payments, 1)
	assert.True(t, st.Remaining.Equal(dec("2000")))

	_, err = svc.Get(ctx, "o2", b2.ID)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)

	sum, err := svc.Summary(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.True(t, sum.TotalBilled.Equal(dec("3500")))
	assert.True(t, sum.TotalPaid.Equal(dec("1000")))
	assert.True(t, sum.Outstanding.Equal(dec("2500")))
	assert.Equal(t, 1, sum.ByStatus[StatusCancelled])
}

func TestList_RejectsInvertedRange(t *testing.T) {
	svc := newTestService(newTestRepo())
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, err := svc.List(context.Background(), "o1", ListFilter{DateFrom: &from, DateTo: &to})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
}
