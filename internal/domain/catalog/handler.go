package catalog

import (
	"net/http"

	"pet-care-center/internal/platform/respond"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, dir *Directory) {
	r.Route("/services", func(sr chi.Router) {
		sr.Get("/", listServicesHandler(dir))
		sr.Get("/boarding-rates", listBoardingRatesHandler(dir))
	})
}

// serviceResponse representa un ítem activo del catálogo.
type serviceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Duration    int             `json:"duration_minutes"`
}

// listServicesHandler godoc
// @Summary Listar servicios activos
// @Description Catálogo público de servicios activos, ordenado por nombre.
// @Tags catalog
// @Produce json
// @Success 200 {array} serviceResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /services [get]
func listServicesHandler(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := dir.ListActive(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toServiceResponses(items))
	}
}

// listBoardingRatesHandler godoc
// @Summary Listar tarifas de hospedaje
// @Description Servicios activos cuyo nombre empieza con "Boarding"; el precio es la tarifa diaria.
// @Tags catalog
// @Produce json
// @Success 200 {array} serviceResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /services/boarding-rates [get]
func listBoardingRatesHandler(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := dir.BoardingRates(r.Context())
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toServiceResponses(items))
	}
}

func toServiceResponses(items []Service) []serviceResponse {
	out := make([]serviceResponse, 0, len(items))
	for _, s := range items {
		out = append(out, serviceResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			Duration:    s.Duration,
		})
	}
	return out
}
