package auth

// Claims del usuario autenticado. UserID es el "sub" del token y se mapea 1:1
// a un perfil de owner.
type Claims struct {
	UserID string
	Email  string
}
