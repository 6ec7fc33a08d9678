package boarding

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
	r.Route("/boarding", func(br chi.Router) {
		br.Post("/", bookHandler(svc))
		br.Get("/", listHandler(svc))
		br.Get("/grouped", groupedHandler(svc))
		br.Get("/{boardingID}", getHandler(svc))
		br.Post("/{boardingID}/cancel", cancelHandler(svc))
	})
}

type bookRequest struct {
	PetID               string `json:"pet_id" validate:"required"`
	CheckInDate         string `json:"check_in_date" validate:"required,date"`
	CheckOutDate        string `json:"check_out_date" validate:"required,date"`
	DailyRate           string `json:"daily_rate" validate:"required,decimal"`
	SpecialInstructions string `json:"special_instructions"`
}

type boardingResponse struct {
	ID                  string          `json:"id"`
	PetID               string          `json:"pet_id"`
	PetName             string          `json:"pet_name,omitempty"`
	CheckInDate         string          `json:"check_in_date"`
	CheckOutDate        string          `json:"check_out_date"`
	DailyRate           decimal.Decimal `json:"daily_rate" swaggertype:"string"`
	Days                int             `json:"days"`
	TotalCost           decimal.Decimal `json:"total_cost" swaggertype:"string"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	Status              Status          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type bookResponse struct {
	Boarding    boardingResponse `json:"boarding"`
	BillID      string           `json:"bill_id"`
	TotalAmount decimal.Decimal  `json:"total_amount" swaggertype:"string"`
}

type groupedResponse struct {
	Active    []boardingResponse `json:"active"`
	Upcoming  []boardingResponse `json:"upcoming"`
	Past      []boardingResponse `json:"past"`
	Cancelled []boardingResponse `json:"cancelled"`
}

// bookHandler godoc
// @Summary Reservar hospedaje
// @Description Crea la estadía (booked) y su factura pending en una sola transacción.
// @Tags boarding
// @Accept json
// @Produce json
// @Param body body bookRequest true "Estadía"
// @Success 201 {object} bookResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /boarding [post]
func bookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		var req bookRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Invalid(w, err)
			return
		}
		checkIn, _ := calendar.ParseDate(req.CheckInDate)
		checkOut, _ := calendar.ParseDate(req.CheckOutDate)
		rate, _ := decimal.NewFromString(req.DailyRate)

		b, bill, err := svc.Book(r.Context(), ownerID, BookInput{
			PetID:               req.PetID,
			CheckIn:             checkIn,
			CheckOut:            checkOut,
			DailyRate:           rate,
			SpecialInstructions: req.SpecialInstructions,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, bookResponse{
			Boarding:    toBoardingResponse(b),
			BillID:      bill.ID,
			TotalAmount: bill.TotalAmount,
		})
	}
}

// listHandler godoc
// @Summary Listar estadías
// @Tags boarding
// @Produce json
// @Success 200 {array} boardingResponse
// @Security BearerAuth
// @Router /boarding [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		items, err := svc.List(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toBoardingResponses(items))
	}
}

// groupedHandler godoc
// @Summary Estadías agrupadas
// @Description active / upcoming / past / cancelled según la fecha de hoy.
// @Tags boarding
// @Produce json
// @Success 200 {object} groupedResponse
// @Security BearerAuth
// @Router /boarding/grouped [get]
func groupedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		groups, err := svc.Grouped(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, groupedResponse{
			Active:    toBoardingResponses(groups[GroupActive]),
			Upcoming:  toBoardingResponses(groups[GroupUpcoming]),
			Past:      toBoardingResponses(groups[GroupPast]),
			Cancelled: toBoardingResponses(groups[GroupCancelled]),
		})
	}
}

// getHandler godoc
// @Summary Ver estadía
// @Tags boarding
// @Produce json
// @Param boardingID path string true "Boarding ID"
// @Success 200 {object} boardingResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /boarding/{boardingID} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		b, err := svc.Get(r.Context(), ownerID, chi.URLParam(r, "boardingID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toBoardingResponse(b))
	}
}

// cancelHandler godoc
// @Summary Cancelar estadía
// @Description Solo desde booked. La factura no se modifica.
// @Tags boarding
// @Produce json
// @Param boardingID path string true "Boarding ID"
// @Success 200 {object} boardingResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /boarding/{boardingID}/cancel [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		b, err := svc.Cancel(r.Context(), ownerID, chi.URLParam(r, "boardingID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toBoardingResponse(b))
	}
}

func toBoardingResponses(items []Boarding) []boardingResponse {
	out := make([]boardingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toBoardingResponse(b))
	}
	return out
}

func toBoardingResponse(b Boarding) boardingResponse {
	return boardingResponse{
		ID:                  b.ID,
		PetID:               b.PetID,
		PetName:             b.PetName,
		CheckInDate:         b.CheckIn.Format(calendar.DateLayout),
		CheckOutDate:        b.CheckOut.Format(calendar.DateLayout),
		DailyRate:           b.DailyRate,
		Days:                b.Days(),
		TotalCost:           b.TotalCost(),
		SpecialInstructions: b.SpecialInstructions,
		Status:              b.Status,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}
