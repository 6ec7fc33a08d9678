package boarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testPets map[string]string

func (p testPets) OwnerOf(ctx context.Context, petID string) (string, error) {
	o, ok := p[petID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return o, nil
}

type testRepo struct {
	pets  testPets
	byID  map[string]Boarding
	bills map[string]billing.Bill
	fail  error
}

func newTestRepo(pets testPets) *testRepo {
	return &testRepo{pets: pets, byID: map[string]Boarding{}, bills: map[string]billing.Bill{}}
}

func (r *testRepo) CreateWithBill(ctx context.Context, b Boarding, bill billing.Bill) error {
	if r.fail != nil {
		return r.fail
	}
	if r.pets[b.PetID] != b.OwnerID {
		return apperrors.ErrOwnership
	}
	r.byID[b.ID] = b
	r.bills[bill.ID] = bill
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Boarding, error) {
	b, ok := r.byID[id]
	if !ok {
		return Boarding{}, apperrors.ErrNotFound
	}
	return b, nil
}

func (r *testRepo) List(ctx context.Context, ownerID string) ([]Boarding, error) {
	out := make([]Boarding, 0)
	for _, b := range r.byID {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *testRepo) Transition(ctx context.Context, id, ownerID string, fn func(*Boarding) error) (Boarding, error) {
	b, ok := r.byID[id]
	if !ok {
		return Boarding{}, apperrors.ErrNotFound
	}
	if b.OwnerID != ownerID {
		return Boarding{}, apperrors.ErrOwnership
	}
	if err := fn(&b); err != nil {
		return Boarding{}, err
	}
	r.byID[id] = b
	return b, nil
}

// -------------------------
// Helpers
// -------------------------

var testNow = time.Date(2025, 1, 9, 15, 0, 0, 0, time.UTC)

func day(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

func setup(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	pets := testPets{"p1": "o1", "p2": "o2"}
	repo := newTestRepo(pets)
	return NewService(repo, pets, WithClock(func() time.Time { return testNow })), repo
}

func book(svc *Service, in, out int, rate string) (Boarding, billing.Bill, error) {
	return svc.Book(context.Background(), "o1", BookInput{
		PetID:     "p1",
		CheckIn:   day(in),
		CheckOut:  day(out),
		DailyRate: decimal.RequireFromString(rate),
	})
}

// -------------------------
// Tests
// -------------------------

func TestBook_CreatesBoardingAndBill(t *testing.T) {
	svc, repo := setup(t)

	b, bill, err := book(svc, 10, 13, "1000")
	require.NoError(t, err)

	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, 3, b.Days())
	assert.Contains(t, repo.byID, b.ID)

	stored := repo.bills[bill.ID]
	assert.Equal(t, "o1", stored.OwnerID)
	assert.Equal(t, billing.StatusPending, stored.PaymentStatus)
	assert.Equal(t, day(9), stored.BillDate)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "Boarding for 3 days from 2025-01-10 to 2025-01-13", stored.Notes)

	require.Len(t, stored.Details, 1)
	d := stored.Details[0]
	assert.Equal(t, DetailDescription, d.Description)
	assert.Equal(t, 3, d.Quantity)
	assert.True(t, d.UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, d.Subtotal.Equal(decimal.NewFromInt(3000)))
}

func TestBook_TotalIsRateTimesDays(t *testing.T) {
	cases := []struct {
		in, out int
		rate    string
	}{
		{10, 11, "1"},
		{10, 20, "999.99"},
		{12, 31, "0.01"},
		{9, 10, "1234.5"},
	}
	for _, tc := range cases {
		svc, repo := setup(t)
		b, bill, err := book(svc, tc.in, tc.out, tc.rate)
		require.NoError(t, err)

		rate := decimal.RequireFromString(tc.rate)
		want := rate.Mul(decimal.NewFromInt(int64(tc.out - tc.in)))
		stored := repo.bills[bill.ID]
		assert.True(t, stored.TotalAmount.Equal(want), "%s != %s", stored.TotalAmount, want)
		assert.True(t, stored.Details[0].Subtotal.Equal(stored.TotalAmount))
		assert.True(t, b.TotalCost().Equal(want))
	}
}

func TestBook_InvalidDateRange(t *testing.T) {
	svc, repo := setup(t)

	_, _, err := book(svc, 12, 12, "1000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	_, _, err = book(svc, 12, 11, "1000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	assert.Empty(t, repo.byID)
	assert.Empty(t, repo.bills)
}

func TestBook_RejectsRateWithFractionOfCent(t *testing.T) {
	svc, repo := setup(t)

	_, _, err := book(svc, 10, 13, "1000.005")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.Empty(t, repo.byID)
	assert.Empty(t, repo.bills)

	_, _, err = book(svc, 10, 13, "1000.500")
	assert.NoError(t, err)
}

func TestBook_ReportsEveryViolation(t *testing.T) {
	svc, _ := setup(t)

	_, _, err := svc.Book(context.Background(), "o1", BookInput{
		PetID:     "p2",
		CheckIn:   day(5),
		CheckOut:  day(4),
		DailyRate: decimal.Zero,
	})

	var v apperrors.Violations
	require.True(t, errors.As(err, &v))
	assert.Len(t, v, 4)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)
	assert.ErrorIs(t, err, apperrors.ErrPastDate)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestBook_StoreFailureLeavesNothing(t *testing.T) {
	svc, repo := setup(t)
	repo.fail = errors.New("insert billing: deadlock")

	_, _, err := book(svc, 10, 13, "1000")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Empty(t, repo.byID)
	assert.Empty(t, repo.bills)
}

func TestCancel_OnlyFromBooked(t *testing.T) {
	for _, tc := range []struct {
		from Status
		ok   bool
	}{
		{StatusBooked, true},
		{StatusCheckedIn, false},
		{StatusCheckedOut, false},
		{StatusCancelled, false},
	} {
		svc, repo := setup(t)
		b, bill, err := book(svc, 10, 13, "1000")
		require.NoError(t, err)
		cur := repo.byID[b.ID]
		cur.Status = tc.from
		repo.byID[b.ID] = cur

		got, err := svc.Cancel(context.Background(), "o1", b.ID)
		if tc.ok {
			require.NoError(t, err)
			assert.Equal(t, StatusCancelled, got.Status)
			// la factura queda igual
			assert.Equal(t, billing.StatusPending, repo.bills[bill.ID].PaymentStatus)
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, tc.from)
		assert.Equal(t, tc.from, repo.byID[b.ID].Status)
	}
}

func TestCancel_ForeignBoarding(t *testing.T) {
	svc, _ := setup(t)
	b, _, err := book(svc, 10, 13, "1000")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "o2", b.ID)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)
}

func TestListOrderAndGroups(t *testing.T) {
	svc, repo := setup(t)
	put := func(id string, st Status, in, out int) {
		repo.byID[id] = Boarding{ID: id, OwnerID: "o1", PetID: "p1", Status: st, CheckIn: day(in), CheckOut: day(out)}
	}
	put("cancelled", StatusCancelled, 20, 22)
	put("upcoming", StatusBooked, 15, 18)
	put("booked-today", StatusBooked, 9, 12)
	put("in", StatusCheckedIn, 5, 12)
	put("out", StatusCheckedOut, 1, 3)
	put("stale", StatusBooked, 2, 4)

	items, err := svc.List(context.Background(), "o1")
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, b := range items {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"in", "upcoming", "booked-today", "stale", "out", "cancelled"}, ids)

	groups, err := svc.Grouped(context.Background(), "o1")
	require.NoError(t, err)
	groupOf := map[string]Group{}
	for g, items := range groups {
		for _, b := range items {
			groupOf[b.ID] = g
		}
	}
	assert.Equal(t, map[string]Group{
		"cancelled":    GroupCancelled,
		"upcoming":     GroupUpcoming,
		"booked-today": GroupActive,
		"in":           GroupActive,
		"out":          GroupPast,
		"stale":        GroupPast,
	}, groupOf)
}
