package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/catalog"
	"pet-care-center/internal/platform/calendar"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testPets map[string]string // petID -> ownerID

func (p testPets) OwnerOf(ctx context.Context, petID string) (string, error) {
	o, ok := p[petID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return o, nil
}

type testCatalog map[string]catalog.Service

func (c testCatalog) GetByID(ctx context.Context, id string) (catalog.Service, error) {
	s, ok := c[id]
	if !ok {
		return catalog.Service{}, apperrors.ErrNotFound
	}
	return s, nil
}

type testRepo struct {
	pets  testPets
	byID  map[string]Appointment
	bills map[string]billing.Bill
}

func newTestRepo(pets testPets) *testRepo {
	return &testRepo{pets: pets, byID: map[string]Appointment{}, bills: map[string]billing.Bill{}}
}

func (r *testRepo) Create(ctx context.Context, ownerID string, a Appointment, bill *billing.Bill) error {
	if r.pets[a.PetID] != ownerID {
		return apperrors.ErrOwnership
	}
	if bill != nil {
		r.bills[bill.ID] = *bill
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, apperrors.ErrNotFound
	}
	return a, nil
}

func (r *testRepo) List(ctx context.Context, ownerID string, f ListFilter) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerID == ownerID && (f.Status == "" || a.Status == f.Status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) CountByStatus(ctx context.Context, ownerID string) (map[Status]int, error) {
	out := map[Status]int{}
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			out[a.Status]++
		}
	}
	return out, nil
}

func (r *testRepo) Transition(ctx context.Context, id, ownerID string, fn func(*Appointment) error) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, apperrors.ErrNotFound
	}
	if a.OwnerID != ownerID {
		return Appointment{}, apperrors.ErrOwnership
	}
	if err := fn(&a); err != nil {
		return Appointment{}, err
	}
	r.byID[id] = a
	return a, nil
}

func (r *testRepo) CreateBill(ctx context.Context, id, ownerID string, fn BillFunc) (billing.Bill, error) {
	a, ok := r.byID[id]
	if !ok {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	if a.OwnerID != ownerID {
		return billing.Bill{}, apperrors.ErrOwnership
	}
	if a.BillID != "" {
		return billing.Bill{}, apperrors.ErrAlreadyBilled
	}
	b, err := fn(a)
	if err != nil {
		return billing.Bill{}, err
	}
	r.bills[b.ID] = b
	a.BillID = b.ID
	r.byID[id] = a
	return b, nil
}

// -------------------------
// Helpers
// -------------------------

var testNow = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...Option) (*Service, *testRepo) {
	t.Helper()
	pets := testPets{"p1": "o1", "p2": "o2"}
	cat := testCatalog{
		"s1": {ID: "s1", Name: "Consulta general", Price: decimal.RequireFromString("1500.00"), Status: catalog.StatusActive},
		"s2": {ID: "s2", Name: "Baño", Price: decimal.RequireFromString("800"), Status: catalog.StatusInactive},
	}
	repo := newTestRepo(pets)
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(repo, pets, cat, opts...), repo
}

func bookAt(svc *Service, date time.Time, hhmm string) (Appointment, error) {
	return svc.Book(context.Background(), "o1", BookInput{PetID: "p1", ServiceID: "s1", Date: date, Time: hhmm})
}

func setStatus(repo *testRepo, id string, st Status) {
	a := repo.byID[id]
	a.Status = st
	repo.byID[id] = a
}

// -------------------------
// Tests
// -------------------------

func TestBook_BusinessHours(t *testing.T) {
	svc, _ := setup(t)
	tomorrow := testNow.AddDate(0, 0, 1)

	for _, ok := range []string{"08:00", "12:30", "17:59", "18:00"} {
		a, err := bookAt(svc, tomorrow, ok)
		require.NoError(t, err, ok)
		assert.Equal(t, StatusScheduled, a.Status)
		assert.Equal(t, ok, a.Time.String())
	}

	for _, bad := range []string{"18:30", "07:59", "18:01", "23:00"} {
		_, err := bookAt(svc, tomorrow, bad)
		assert.ErrorIs(t, err, apperrors.ErrOutsideBusinessHours, bad)
	}

	for _, bad := range []string{"8:00", "24:00", "12:60", "noon", ""} {
		_, err := bookAt(svc, tomorrow, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat, bad)
	}
}

func TestBook_TodayIsAllowedYesterdayIsNot(t *testing.T) {
	svc, _ := setup(t)

	// hoy a medianoche, aunque ya sean las 09:00
	_, err := bookAt(svc, calendar.Date(testNow), "10:00")
	require.NoError(t, err)

	_, err = bookAt(svc, testNow.AddDate(0, 0, -1), "10:00")
	assert.ErrorIs(t, err, apperrors.ErrPastDate)
}

func TestBook_ReportsEveryViolationAndWritesNothing(t *testing.T) {
	svc, repo := setup(t)

	_, err := svc.Book(context.Background(), "o1", BookInput{
		PetID:     "p2",
		ServiceID: "s2",
		Date:      testNow.AddDate(0, 0, -2),
		Time:      "19:00",
	})

	var v apperrors.Violations
	require.True(t, errors.As(err, &v))
	assert.Len(t, v, 4)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSelection)
	assert.ErrorIs(t, err, apperrors.ErrPastDate)
	assert.ErrorIs(t, err, apperrors.ErrOutsideBusinessHours)
	assert.Empty(t, repo.byID)
}

func TestBook_UnknownPetAndService(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Book(context.Background(), "o1", BookInput{
		PetID:     "nope",
		ServiceID: "nope",
		Date:      testNow,
		Time:      "10:00",
	})

	var v apperrors.Violations
	require.True(t, errors.As(err, &v))
	assert.Len(t, v, 2)
	assert.NotErrorIs(t, err, apperrors.ErrOwnership)
}

// Dos citas en el mismo horario conviven: la agenda no controla doble reserva.
func TestBook_SameSlotTwiceIsAccepted(t *testing.T) {
	svc, repo := setup(t)
	day := testNow.AddDate(0, 0, 3)

	a1, err := bookAt(svc, day, "10:00")
	require.NoError(t, err)
	a2, err := bookAt(svc, day, "10:00")
	require.NoError(t, err)

	assert.NotEqual(t, a1.ID, a2.ID)
	assert.Len(t, repo.byID, 2)
}

func TestBook_NoBillUnlessAutoBilling(t *testing.T) {
	svc, repo := setup(t)
	_, err := bookAt(svc, testNow, "10:00")
	require.NoError(t, err)
	assert.Empty(t, repo.bills)

	svc, repo = setup(t, WithAutoBilling(true))
	a, err := bookAt(svc, testNow, "10:00")
	require.NoError(t, err)
	require.Len(t, repo.bills, 1)

	b := repo.bills[a.BillID]
	assert.Equal(t, a.ID, b.AppointmentID)
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("1500")))
	assert.Equal(t, billing.StatusPending, b.PaymentStatus)
}

func TestCancel_FromScheduledOrConfirmed(t *testing.T) {
	for _, from := range []Status{StatusScheduled, StatusConfirmed} {
		svc, repo := setup(t)
		a, err := bookAt(svc, testNow, "10:00")
		require.NoError(t, err)
		setStatus(repo, a.ID, from)

		later := testNow.Add(time.Hour)
		svc.now = func() time.Time { return later }

		got, err := svc.Cancel(context.Background(), "o1", a.ID)
		require.NoError(t, err, from)
		assert.Equal(t, StatusCancelled, got.Status)
		assert.Equal(t, later, got.UpdatedAt)

		// segunda cancelación
		_, err = svc.Cancel(context.Background(), "o1", a.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	}
}

func TestCancel_TerminalStatusesFail(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		svc, repo := setup(t)
		a, err := bookAt(svc, testNow, "10:00")
		require.NoError(t, err)
		setStatus(repo, a.ID, from)

		_, err = svc.Cancel(context.Background(), "o1", a.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, from)
		assert.Equal(t, from, repo.byID[a.ID].Status)
	}
}

func TestCancel_ForeignAppointment(t *testing.T) {
	svc, repo := setup(t)
	a, err := bookAt(svc, testNow, "10:00")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "o2", a.ID)
	assert.ErrorIs(t, err, apperrors.ErrOwnership)
	assert.Equal(t, StatusScheduled, repo.byID[a.ID].Status)
}

func TestBill_OnceAndNeverWhenCancelled(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	a, err := bookAt(svc, testNow, "10:00")
	require.NoError(t, err)

	b, err := svc.Bill(ctx, "o1", a.ID)
	require.NoError(t, err)
	require.Len(t, b.Details, 1)
	assert.Equal(t, 1, b.Details[0].Quantity)
	assert.Equal(t, "s1", b.Details[0].ServiceID)
	assert.True(t, b.TotalAmount.Equal(b.Details[0].Subtotal))

	_, err = svc.Bill(ctx, "o1", a.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyBilled)

	c, err := bookAt(svc, testNow, "11:00")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, "o1", c.ID)
	require.NoError(t, err)
	_, err = svc.Bill(ctx, "o1", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Len(t, repo.bills, 1)
}

func TestCounts_AlwaysHasEveryStatus(t *testing.T) {
	svc, repo := setup(t)
	a, _ := bookAt(svc, testNow, "10:00")
	_, _ = bookAt(svc, testNow, "11:00")
	setStatus(repo, a.ID, StatusCompleted)

	c, err := svc.Counts(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.All)
	assert.Equal(t, 1, c.ByStatus[StatusScheduled])
	assert.Equal(t, 1, c.ByStatus[StatusCompleted])
	assert.Contains(t, c.ByStatus, StatusCancelled)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusScheduled.CanTransition(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransition(StatusCompleted))
	assert.False(t, StatusScheduled.CanTransition(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransition(StatusCancelled))
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, Status("bogus").Terminal())
}
