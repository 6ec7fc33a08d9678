package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/pets"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PetsRepo struct {
	db *sqlx.DB
}

func NewPetsRepo(db *sqlx.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

type petRow struct {
	ID        string              `db:"id"`
	OwnerID   string              `db:"owner_id"`
	Name      string              `db:"name"`
	SpeciesID int                 `db:"species_id"`
	BreedID   sql.NullInt32       `db:"breed_id"`
	Gender    string              `db:"gender"`
	BirthDate sql.NullTime        `db:"birth_date"`
	Weight    decimal.NullDecimal `db:"weight"`
	Color     string              `db:"color"`
	Microchip string              `db:"microchip"`
	Notes     string              `db:"notes"`
	CreatedAt time.Time           `db:"created_at"`
	UpdatedAt time.Time           `db:"updated_at"`
}

func (r petRow) toDomain() pets.Pet {
	p := pets.Pet{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		SpeciesID: r.SpeciesID,
		Gender:    pets.Gender(r.Gender),
		Color:     r.Color,
		Microchip: r.Microchip,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.BreedID.Valid {
		id := int(r.BreedID.Int32)
		p.BreedID = &id
	}
	if r.BirthDate.Valid {
		// birth_date es DATE; pgx lo mapea a medianoche UTC
		t := r.BirthDate.Time
		p.BirthDate = &t
	}
	if r.Weight.Valid {
		w := r.Weight.Decimal
		p.Weight = &w
	}
	return p
}

const petColumns = `id, owner_id, name, species_id, breed_id, gender, birth_date, weight, color, microchip, notes, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	var breed sql.NullInt32
	if p.BreedID != nil {
		breed = sql.NullInt32{Int32: int32(*p.BreedID), Valid: true}
	}
	var weight decimal.NullDecimal
	if p.Weight != nil {
		weight = decimal.NullDecimal{Decimal: *p.Weight, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.SpeciesID,
		breed,
		string(p.Gender),
		nullDate(p.BirthDate),
		weight,
		p.Color,
		p.Microchip,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	if !validID(id) {
		return pets.Pet{}, apperrors.ErrNotFound
	}
	var row petRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id); err != nil {
		return pets.Pet{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY name ASC
	`, ownerID); err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PetsRepo) SpeciesExists(ctx context.Context, speciesID int) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM species WHERE id = $1)`, speciesID)
	return ok, err
}

// Delete bloquea la mascota para que no entre una cita nueva entre el chequeo
// y el borrado.
func (r *PetsRepo) Delete(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return apperrors.ErrNotFound
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var owner string
		if err := tx.GetContext(ctx, &owner, `SELECT owner_id FROM pets WHERE id = $1 FOR UPDATE`, id); err != nil {
			return notFound(err)
		}
		if owner != ownerID {
			return apperrors.ErrOwnership
		}

		var active int
		if err := tx.GetContext(ctx, &active, `
			SELECT COUNT(*) FROM appointments
			WHERE pet_id = $1 AND status IN ('scheduled', 'confirmed')
		`, id); err != nil {
			return err
		}
		if active > 0 {
			return pets.ErrPetHasActiveAppointments
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
		return err
	})
}
