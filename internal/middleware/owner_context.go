package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-care-center/internal/platform/respond"
)

const ownerKey ctxKey = "owner_id"

// OwnerResolver resuelve el owner del usuario autenticado (owners.Service lo implementa).
type OwnerResolver interface {
	OwnerIDForUser(ctx context.Context, userID string) (string, error)
}

// RequireOwner exige claims y un perfil de owner. Todas las rutas de citas,
// hospedaje y facturación cuelgan de este middleware.
func RequireOwner(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				respond.Unauthorized(w)
				return
			}

			ownerID, err := resolver.OwnerIDForUser(r.Context(), claims.UserID)
			if err != nil {
				respond.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOwnerID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ownerKey).(string)
	return v, ok && v != ""
}
