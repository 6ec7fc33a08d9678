package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/boarding"
	"pet-care-center/internal/platform/calendar"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type BoardingRepo struct {
	db *sqlx.DB
}

func NewBoardingRepo(db *sqlx.DB) *BoardingRepo {
	return &BoardingRepo{db: db}
}

type boardingRow struct {
	ID                  string          `db:"id"`
	PetID               string          `db:"pet_id"`
	OwnerID             string          `db:"owner_id"`
	CheckIn             time.Time       `db:"check_in_date"`
	CheckOut            time.Time       `db:"check_out_date"`
	DailyRate           decimal.Decimal `db:"daily_rate"`
	SpecialInstructions string          `db:"special_instructions"`
	Status              string          `db:"status"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
	PetName             string          `db:"pet_name"`
}

func (r boardingRow) toDomain() boarding.Boarding {
	return boarding.Boarding{
		ID:                  r.ID,
		PetID:               r.PetID,
		OwnerID:             r.OwnerID,
		CheckIn:             calendar.Date(r.CheckIn),
		CheckOut:            calendar.Date(r.CheckOut),
		DailyRate:           r.DailyRate,
		SpecialInstructions: r.SpecialInstructions,
		Status:              boarding.Status(r.Status),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		PetName:             r.PetName,
	}
}

const boardingSelect = `
	SELECT b.id, b.pet_id, b.owner_id, b.check_in_date, b.check_out_date, b.daily_rate,
	       b.special_instructions, b.status, b.created_at, b.updated_at, p.name AS pet_name
	FROM boarding b
	JOIN pets p ON p.id = b.pet_id
`

func (r *BoardingRepo) CreateWithBill(ctx context.Context, b boarding.Boarding, bill billing.Bill) error {
	if !validID(b.PetID) {
		return apperrors.ErrInvalidSelection
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var owner string
		if err := tx.GetContext(ctx, &owner, `SELECT owner_id FROM pets WHERE id = $1 FOR SHARE`, b.PetID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrInvalidSelection
			}
			return err
		}
		if owner != b.OwnerID || bill.OwnerID != b.OwnerID {
			return apperrors.ErrOwnership
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO boarding (id, pet_id, owner_id, check_in_date, check_out_date, daily_rate,
			                      special_instructions, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			b.ID,
			b.PetID,
			b.OwnerID,
			b.CheckIn,
			b.CheckOut,
			b.DailyRate,
			b.SpecialInstructions,
			string(b.Status),
			b.CreatedAt,
			b.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert boarding: %w", err)
		}

		return insertBill(ctx, tx, bill)
	})
}

func (r *BoardingRepo) GetByID(ctx context.Context, id string) (boarding.Boarding, error) {
	if !validID(id) {
		return boarding.Boarding{}, apperrors.ErrNotFound
	}
	var row boardingRow
	if err := r.db.GetContext(ctx, &row, boardingSelect+` WHERE b.id = $1`, id); err != nil {
		return boarding.Boarding{}, notFound(err)
	}
	return row.toDomain(), nil
}

// List replica boarding.Less en SQL.
func (r *BoardingRepo) List(ctx context.Context, ownerID string) ([]boarding.Boarding, error) {
	var rows []boardingRow
	if err := r.db.SelectContext(ctx, &rows, boardingSelect+`
		WHERE b.owner_id = $1
		ORDER BY CASE b.status
			WHEN 'checked_in' THEN 1
			WHEN 'booked' THEN 2
			WHEN 'checked_out' THEN 3
			WHEN 'cancelled' THEN 4
			ELSE 5 END,
			b.check_in_date DESC
	`, ownerID); err != nil {
		return nil, err
	}

	out := make([]boarding.Boarding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BoardingRepo) Transition(ctx context.Context, id, ownerID string, fn func(*boarding.Boarding) error) (boarding.Boarding, error) {
	if !validID(id) {
		return boarding.Boarding{}, apperrors.ErrNotFound
	}
	var out boarding.Boarding
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row boardingRow
		if err := tx.GetContext(ctx, &row, boardingSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id); err != nil {
			return notFound(err)
		}
		if row.OwnerID != ownerID {
			return apperrors.ErrOwnership
		}

		b := row.toDomain()
		if err := fn(&b); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE boarding SET status = $2, special_instructions = $3, updated_at = $4 WHERE id = $1
		`, id, string(b.Status), b.SpecialInstructions, b.UpdatedAt); err != nil {
			return fmt.Errorf("update boarding: %w", err)
		}
		out = b
		return nil
	})
	return out, err
}
