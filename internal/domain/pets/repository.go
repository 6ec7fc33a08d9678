package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	SpeciesExists(ctx context.Context, speciesID int) (bool, error)

	// Delete borra la mascota si no tiene citas scheduled/confirmed; el chequeo
	// y el borrado van en la misma transacción. Con citas activas devuelve
	// ErrPetHasActiveAppointments.
	Delete(ctx context.Context, id, ownerID string) error
}
