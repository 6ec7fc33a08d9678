package owners

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-center/internal/apperrors"
)

type testRepo struct {
	byID map[string]Owner
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Owner{}}
}

func (r *testRepo) Create(ctx context.Context, o Owner) error {
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) Update(ctx context.Context, o Owner) error {
	if _, ok := r.byID[o.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Owner, error) {
	o, ok := r.byID[id]
	if !ok {
		return Owner{}, apperrors.ErrNotFound
	}
	return o, nil
}

func (r *testRepo) GetByUserID(ctx context.Context, userID string) (Owner, error) {
	for _, o := range r.byID {
		if o.UserID == userID {
			return o, nil
		}
	}
	return Owner{}, apperrors.ErrNotFound
}

func TestService_SaveProfile_CreatesThenUpdates(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t0 := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	created, err := svc.SaveProfile(context.Background(), "u1", ProfileInput{Name: " Ana ", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.Name != "Ana" || created.UserID != "u1" {
		t.Fatalf("unexpected owner: %+v", created)
	}

	t1 := t0.Add(time.Hour)
	svc.now = func() time.Time { return t1 }

	updated, err := svc.SaveProfile(context.Background(), "u1", ProfileInput{Name: "Ana María", Address: "Colombo 3"})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same owner id, got %s vs %s", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(t0) || !updated.UpdatedAt.Equal(t1) {
		t.Fatalf("unexpected timestamps: %+v", updated)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 owner, got %d", len(repo.byID))
	}
}

func TestService_SaveProfile_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo())
	if _, err := svc.SaveProfile(context.Background(), "u1", ProfileInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_OwnerIDForUser(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.OwnerIDForUser(context.Background(), "u1"); !errors.Is(err, apperrors.ErrOwnerProfileRequired) {
		t.Fatalf("expected ErrOwnerProfileRequired, got %v", err)
	}

	o, _ := svc.SaveProfile(context.Background(), "u1", ProfileInput{Name: "Ana"})
	id, err := svc.OwnerIDForUser(context.Background(), "u1")
	if err != nil || id != o.ID {
		t.Fatalf("expected %s, got %s (%v)", o.ID, id, err)
	}
}
