package pets

import (
	"net/http"
	"time"

	"pet-care-center/internal/middleware"
	"pet-care-center/internal/platform/calendar"
	"pet-care-center/internal/platform/respond"
	"pet-care-center/internal/platform/validation"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name      string `json:"name" validate:"required"`
	SpeciesID int    `json:"species_id" validate:"required,gt=0"`
	BreedID   *int   `json:"breed_id" validate:"omitempty,gt=0"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female unknown"`
	BirthDate string `json:"birth_date" validate:"omitempty,date"` // YYYY-MM-DD
	Weight    string `json:"weight" validate:"omitempty,decimal"`
	Color     string `json:"color"`
	Microchip string `json:"microchip"`
	Notes     string `json:"notes"`
}

type petResponse struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"owner_id"`
	Name      string           `json:"name"`
	SpeciesID int              `json:"species_id"`
	BreedID   *int             `json:"breed_id,omitempty"`
	Gender    Gender           `json:"gender"`
	BirthDate string           `json:"birth_date,omitempty"`
	Weight    *decimal.Decimal `json:"weight,omitempty" swaggertype:"string"`
	Color     string           `json:"color,omitempty"`
	Microchip string           `json:"microchip,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param body body createPetRequest true "Mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		var req createPetRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Invalid(w, err)
			return
		}

		in := CreateInput{
			Name:      req.Name,
			SpeciesID: req.SpeciesID,
			BreedID:   req.BreedID,
			Gender:    Gender(req.Gender),
			Color:     req.Color,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		}
		if req.BirthDate != "" {
			bd, _ := calendar.ParseDate(req.BirthDate)
			in.BirthDate = &bd
		}
		if req.Weight != "" {
			wt, _ := decimal.NewFromString(req.Weight)
			in.Weight = &wt
		}

		p, err := svc.Create(r.Context(), ownerID, in)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 403 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		items, err := svc.ListByOwner(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Tags pets
// @Produce json
// @Param petID path string true "Pet ID"
// @Success 200 {object} petResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		p, err := svc.GetOwned(r.Context(), ownerID, chi.URLParam(r, "petID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota
// @Description Solo si no tiene citas scheduled/confirmed.
// @Tags pets
// @Param petID path string true "Pet ID"
// @Success 204
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		if err := svc.Delete(r.Context(), ownerID, chi.URLParam(r, "petID")); err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		SpeciesID: p.SpeciesID,
		BreedID:   p.BreedID,
		Gender:    p.Gender,
		Weight:    p.Weight,
		Color:     p.Color,
		Microchip: p.Microchip,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BirthDate != nil {
		out.BirthDate = p.BirthDate.Format(calendar.DateLayout)
	}
	return out
}
