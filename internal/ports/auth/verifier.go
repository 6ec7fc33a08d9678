package auth

import "context"

// AuthVerifier valida el bearer token; jwtauth.Verifier es la implementación.
// Un error significa "sin usuario", nunca corta el request.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
