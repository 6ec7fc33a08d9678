package appointments

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
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookHandler(svc))
		ar.Get("/", listHandler(svc))
		ar.Get("/counts", countsHandler(svc))
		ar.Get("/{appointmentID}", getHandler(svc))
		ar.Post("/{appointmentID}/cancel", cancelHandler(svc))
		ar.Post("/{appointmentID}/bill", billHandler(svc))
	})
}

type bookRequest struct {
	PetID     string `json:"pet_id" validate:"required"`
	ServiceID string `json:"service_id" validate:"required"`
	Date      string `json:"date" validate:"required,date"` // YYYY-MM-DD
	Time      string `json:"time" validate:"required"`      // HH:MM
	Notes     string `json:"notes"`
}

type listQuery struct {
	Status    string `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
	PetID     string `json:"pet_id"`
	ServiceID string `json:"service_id"`
	DateFrom  string `json:"date_from" validate:"omitempty,date"`
	DateTo    string `json:"date_to" validate:"omitempty,date"`
}

type appointmentResponse struct {
	ID           string          `json:"id"`
	PetID        string          `json:"pet_id"`
	PetName      string          `json:"pet_name,omitempty"`
	ServiceID    string          `json:"service_id"`
	ServiceName  string          `json:"service_name,omitempty"`
	ServicePrice decimal.Decimal `json:"service_price" swaggertype:"string"`
	StaffID      string          `json:"staff_id,omitempty"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Status       Status          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	BillID       string          `json:"bill_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type countsResponse struct {
	All       int `json:"all"`
	Scheduled int `json:"scheduled"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type billResponse struct {
	BillID        string          `json:"bill_id"`
	TotalAmount   decimal.Decimal `json:"total_amount" swaggertype:"string"`
	PaymentStatus string          `json:"payment_status"`
}

// bookHandler godoc
// @Summary Agendar cita
// @Description Valida ownership de la mascota, servicio activo, fecha no pasada y horario 08:00-18:00.
// @Tags appointments
// @Accept json
// @Produce json
// @Param body body bookRequest true "Cita"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /appointments [post]
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
		date, _ := calendar.ParseDate(req.Date)

		a, err := svc.Book(r.Context(), ownerID, BookInput{
			PetID:     req.PetID,
			ServiceID: req.ServiceID,
			Date:      date,
			Time:      req.Time,
			Notes:     req.Notes,
		})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listHandler godoc
// @Summary Listar citas
// @Description Citas de las mascotas del owner, por fecha y hora desc.
// @Tags appointments
// @Produce json
// @Param status query string false "scheduled|confirmed|completed|cancelled"
// @Param pet_id query string false "Pet ID"
// @Param service_id query string false "Service ID"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {array} appointmentResponse
// @Failure 400 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /appointments [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		qs := r.URL.Query()
		q := listQuery{
			Status:    qs.Get("status"),
			PetID:     qs.Get("pet_id"),
			ServiceID: qs.Get("service_id"),
			DateFrom:  qs.Get("date_from"),
			DateTo:    qs.Get("date_to"),
		}
		if err := validation.Struct(&q); err != nil {
			respond.Invalid(w, err)
			return
		}

		f := ListFilter{Status: Status(q.Status), PetID: q.PetID, ServiceID: q.ServiceID}
		if q.DateFrom != "" {
			d, _ := calendar.ParseDate(q.DateFrom)
			f.DateFrom = &d
		}
		if q.DateTo != "" {
			d, _ := calendar.ParseDate(q.DateTo)
			f.DateTo = &d
		}

		items, err := svc.List(r.Context(), ownerID, f)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// countsHandler godoc
// @Summary Conteo de citas por estado
// @Tags appointments
// @Produce json
// @Success 200 {object} countsResponse
// @Security BearerAuth
// @Router /appointments/counts [get]
func countsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		c, err := svc.Counts(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, countsResponse{
			All:       c.All,
			Scheduled: c.ByStatus[StatusScheduled],
			Confirmed: c.ByStatus[StatusConfirmed],
			Completed: c.ByStatus[StatusCompleted],
			Cancelled: c.ByStatus[StatusCancelled],
		})
	}
}

// getHandler godoc
// @Summary Detalle de cita
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "Appointment ID"
// @Success 200 {object} appointmentResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /appointments/{appointmentID} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		a, err := svc.Get(r.Context(), ownerID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// cancelHandler godoc
// @Summary Cancelar cita
// @Description Solo desde scheduled o confirmed.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "Appointment ID"
// @Success 200 {object} appointmentResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /appointments/{appointmentID}/cancel [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		a, err := svc.Cancel(r.Context(), ownerID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// billHandler godoc
// @Summary Facturar cita
// @Description Crea la factura de la cita (una línea con el servicio). Una sola vez por cita.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "Appointment ID"
// @Success 201 {object} billResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /appointments/{appointmentID}/bill [post]
func billHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		b, err := svc.Bill(r.Context(), ownerID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, billResponse{
			BillID:        b.ID,
			TotalAmount:   b.TotalAmount,
			PaymentStatus: string(b.PaymentStatus),
		})
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:           a.ID,
		PetID:        a.PetID,
		PetName:      a.PetName,
		ServiceID:    a.ServiceID,
		ServiceName:  a.ServiceName,
		ServicePrice: a.ServicePrice,
		StaffID:      a.StaffID,
		Date:         a.Date.Format(calendar.DateLayout),
		Time:         a.Time.String(),
		Status:       a.Status,
		Notes:        a.Notes,
		BillID:       a.BillID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
