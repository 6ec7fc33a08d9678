package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type ProfileInput struct {
	Name          string
	ContactNumber string
	Email         string
	Address       string
}

// SaveProfile crea el owner del usuario o actualiza sus datos de contacto.
func (s *Service) SaveProfile(ctx context.Context, userID string, in ProfileInput) (Owner, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(in.Name) == "" {
		return Owner{}, apperrors.ErrInvalidInput
	}

	now := s.now()
	current, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		current.Name = strings.TrimSpace(in.Name)
		current.ContactNumber = strings.TrimSpace(in.ContactNumber)
		current.Email = strings.TrimSpace(in.Email)
		current.Address = strings.TrimSpace(in.Address)
		current.UpdatedAt = now
		if err := s.repo.Update(ctx, current); err != nil {
			return Owner{}, apperrors.Persistence("update owner", err)
		}
		return current, nil
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return Owner{}, apperrors.Persistence("get owner", err)
	}

	o := Owner{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Email:         strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, apperrors.Persistence("create owner", err)
	}
	return o, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Owner, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Owner{}, apperrors.ErrInvalidInput
	}
	return s.repo.GetByUserID(ctx, userID)
}

// OwnerIDForUser resuelve el owner del usuario autenticado.
// Sin perfil devuelve ErrOwnerProfileRequired.
func (s *Service) OwnerIDForUser(ctx context.Context, userID string) (string, error) {
	o, err := s.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrOwnerProfileRequired
		}
		return "", err
	}
	return o.ID, nil
}
