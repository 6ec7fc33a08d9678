package billing

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
	r.Route("/bills", func(br chi.Router) {
		br.Get("/", listBillsHandler(svc))
		br.Get("/summary", summaryHandler(svc))
		br.Get("/{billID}", getBillHandler(svc))
		br.Get("/{billID}/balance", balanceHandler(svc))
		br.Post("/{billID}/payments", recordPaymentHandler(svc))
	})
}

type recordPaymentRequest struct {
	Amount        string `json:"amount" validate:"required,decimal"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type listBillsQuery struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending partial paid cancelled"`
	DateFrom string `json:"date_from" validate:"omitempty,date"`
	DateTo   string `json:"date_to" validate:"omitempty,date"`
}

type detailResponse struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"service_id,omitempty"`
	ServiceName string          `json:"service_name,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string"`
}

type paymentResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Method PaymentMethod   `json:"payment_method"`
	PaidAt time.Time       `json:"paid_at"`
}

type billResponse struct {
	ID            string            `json:"id"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	BillDate      string            `json:"bill_date"`
	TotalAmount   decimal.Decimal   `json:"total_amount" swaggertype:"string"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	PaymentMethod PaymentMethod     `json:"payment_method,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Paid          decimal.Decimal   `json:"paid" swaggertype:"string"`
	Remaining     decimal.Decimal   `json:"remaining_balance" swaggertype:"string"`
	Details       []detailResponse  `json:"details,omitempty"`
	Payments      []paymentResponse `json:"payments,omitempty"`
}

type balanceResponse struct {
	BillID        string          `json:"bill_id"`
	TotalAmount   decimal.Decimal `json:"total_amount" swaggertype:"string"`
	Paid          decimal.Decimal `json:"paid" swaggertype:"string"`
	Remaining     decimal.Decimal `json:"remaining_balance" swaggertype:"string"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

type summaryResponse struct {
	Count       int                   `json:"count"`
	TotalBilled decimal.Decimal       `json:"total_billed" swaggertype:"string"`
	TotalPaid   decimal.Decimal       `json:"total_paid" swaggertype:"string"`
	Outstanding decimal.Decimal       `json:"outstanding" swaggertype:"string"`
	ByStatus    map[PaymentStatus]int `json:"by_status"`
}

// listBillsHandler godoc
// @Summary Listar facturas
// @Description Facturas del owner autenticado, más recientes primero.
// @Tags billing
// @Produce json
// @Param status query string false "pending|partial|paid|cancelled"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {array} billResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /bills [get]
func listBillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		q := listBillsQuery{
			Status:   r.URL.Query().Get("status"),
			DateFrom: r.URL.Query().Get("date_from"),
			DateTo:   r.URL.Query().Get("date_to"),
		}
		if err := validation.Struct(&q); err != nil {
			respond.Invalid(w, err)
			return
		}

		f := ListFilter{Status: PaymentStatus(q.Status)}
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

		out := make([]billResponse, 0, len(items))
		for _, st := range items {
			out = append(out, toBillResponse(st))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// summaryHandler godoc
// @Summary Resumen de facturación
// @Tags billing
// @Produce json
// @Success 200 {object} summaryResponse
// @Failure 403 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /bills/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		sum, err := svc.Summary(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, summaryResponse{
			Count:       sum.Count,
			TotalBilled: sum.TotalBilled,
			TotalPaid:   sum.TotalPaid,
			Outstanding: sum.Outstanding,
			ByStatus:    sum.ByStatus,
		})
	}
}

// getBillHandler godoc
// @Summary Detalle de factura
// @Description Incluye líneas, historial de pagos y saldo pendiente.
// @Tags billing
// @Produce json
// @Param billID path string true "Bill ID"
// @Success 200 {object} billResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /bills/{billID} [get]
func getBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		st, err := svc.Get(r.Context(), ownerID, chi.URLParam(r, "billID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toBillResponse(st))
	}
}

// balanceHandler godoc
// @Summary Saldo pendiente
// @Tags billing
// @Produce json
// @Param billID path string true "Bill ID"
// @Success 200 {object} balanceResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /bills/{billID}/balance [get]
func balanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		b, remaining, err := svc.Balance(r.Context(), ownerID, chi.URLParam(r, "billID"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, balanceResponse{
			BillID:        b.ID,
			TotalAmount:   b.TotalAmount,
			Paid:          Money(b.TotalAmount.Sub(remaining)),
			Remaining:     remaining,
			PaymentStatus: b.PaymentStatus,
		})
	}
}

// recordPaymentHandler godoc
// @Summary Registrar pago
// @Description Pago parcial o total. La factura pasa a partial o paid según lo acumulado.
// @Tags billing
// @Accept json
// @Produce json
// @Param billID path string true "Bill ID"
// @Param body body recordPaymentRequest true "Pago"
// @Success 201 {object} billResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Security BearerAuth
// @Router /bills/{billID}/payments [post]
func recordPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.GetOwnerID(r.Context())
		if !ok {
			respond.Unauthorized(w)
			return
		}

		var req recordPaymentRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Invalid(w, err)
			return
		}
		amount, _ := decimal.NewFromString(req.Amount)

		billID := chi.URLParam(r, "billID")
		if _, _, err := svc.RecordPayment(r.Context(), ownerID, billID, PaymentInput{
			Amount: amount,
			Method: req.PaymentMethod,
		}); err != nil {
			respond.Error(w, err)
			return
		}

		st, err := svc.Get(r.Context(), ownerID, billID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toBillResponse(st))
	}
}

func toBillResponse(st Statement) billResponse {
	out := billResponse{
		ID:            st.ID,
		AppointmentID: st.AppointmentID,
		BillDate:      st.BillDate.Format(calendar.DateLayout),
		TotalAmount:   st.TotalAmount,
		PaymentStatus: st.PaymentStatus,
		PaymentMethod: st.PaymentMethod,
		Notes:         st.Notes,
		Paid:          st.Paid,
		Remaining:     st.Remaining,
	}
	for _, d := range st.Details {
		out.Details = append(out.Details, detailResponse{
			ID:          d.ID,
			ServiceID:   d.ServiceID,
			ServiceName: d.ServiceName,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	for _, p := range st.Payments {
		out.Payments = append(out.Payments, paymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: p.Method,
			PaidAt: p.PaidAt,
		})
	}
	return out
}
