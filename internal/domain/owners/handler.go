package owners

import (
	"net/http"
	"strings"
	"time"

	"pet-care-center/internal/middleware"
	"pet-care-center/internal/platform/respond"
	"pet-care-center/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes cuelga /owners/me. Solo exige usuario autenticado: es la ruta
// que crea el perfil que el resto de los módulos necesita.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners/me", func(or chi.Router) {
		or.Post("/", saveProfileHandler(svc))
		or.Get("/", getProfileHandler(svc))
	})
}

type saveProfileRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
}

type ownerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// saveProfileHandler godoc
// @Summary Crear o actualizar mi perfil de owner
// @Tags owners
// @Accept json
// @Produce json
// @Param body body saveProfileRequest true "Perfil"
// @Success 200 {object} ownerResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /owners/me [post]
func saveProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Unauthorized(w)
			return
		}

		var req saveProfileRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Invalid(w, err)
			return
		}
		if req.Email == "" {
			req.Email = claims.Email
		}

		o, err := svc.SaveProfile(r.Context(), claims.UserID, ProfileInput{
			Name:          req.Name,
			ContactNumber: req.ContactNumber,
			Email:         req.Email,
			Address:       req.Address,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

// getProfileHandler godoc
// @Summary Ver mi perfil de owner
// @Tags owners
// @Produce json
// @Success 200 {object} ownerResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /owners/me [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			respond.Unauthorized(w)
			return
		}

		o, err := svc.GetByUserID(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:            o.ID,
		Name:          o.Name,
		ContactNumber: o.ContactNumber,
		Email:         o.Email,
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
