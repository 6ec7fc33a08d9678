package postgres

import (
	"context"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/owners"

	"github.com/jmoiron/sqlx"
)

type OwnersRepo struct {
	db *sqlx.DB
}

func NewOwnersRepo(db *sqlx.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

type ownerRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Name          string    `db:"name"`
	ContactNumber string    `db:"contact_number"`
	Email         string    `db:"email"`
	Address       string    `db:"address"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r ownerRow) toDomain() owners.Owner {
	return owners.Owner(r)
}

const ownerColumns = `id, user_id, name, contact_number, email, address, created_at, updated_at`

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO owners (`+ownerColumns+`)
		VALUES (:id, :user_id, :name, :contact_number, :email, :address, :created_at, :updated_at)
	`, ownerRow(o))
	return err
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE owners
		SET name = $2, contact_number = $3, email = $4, address = $5, updated_at = $6
		WHERE id = $1
	`, o.ID, o.Name, o.ContactNumber, o.Email, o.Address, o.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	if !validID(id) {
		return owners.Owner{}, apperrors.ErrNotFound
	}
	var row ownerRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id); err != nil {
		return owners.Owner{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *OwnersRepo) GetByUserID(ctx context.Context, userID string) (owners.Owner, error) {
	var row ownerRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+ownerColumns+` FROM owners WHERE user_id = $1`, userID); err != nil {
		return owners.Owner{}, notFound(err)
	}
	return row.toDomain(), nil
}
