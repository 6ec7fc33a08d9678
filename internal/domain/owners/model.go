package owners

import "time"

// Owner es el perfil de cliente asociado 1:1 a un usuario.
// Todos los registros (mascotas, citas, hospedaje, facturas) se acotan por OwnerID.
type Owner struct {
	ID     string
	UserID string

	Name          string
	ContactNumber string
	Email         string
	Address       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
