package middleware

import (
	"net/http"
	"runtime/debug"

	"pet-care-center/internal/platform/logger"
	"pet-care-center/internal/platform/respond"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover reemplaza a chi/middleware.Recoverer para que el panic quede en el
// logger estructurado y el cliente reciba el mismo JSON de error que el resto.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"panic":      rec,
					"stack":      string(debug.Stack()),
				})
				respond.JSON(w, http.StatusInternalServerError, respond.ErrorResponse{Error: "internal error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
