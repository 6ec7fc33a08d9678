package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/appointments"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/boarding"
	"pet-care-center/internal/domain/catalog"
	"pet-care-center/internal/domain/owners"
	"pet-care-center/internal/domain/pets"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Open abre el pool (pgx vía database/sql, envuelto en sqlx) y hace ping.
func Open(dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// withTx corre fn en una transacción; cualquier error hace rollback.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}

// validID: las columnas id son UUID; un id mal formado no puede existir y
// Postgres lo rechazaría con 22P02 en vez de devolver sin filas.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var (
	_ owners.Repository       = (*OwnersRepo)(nil)
	_ pets.Repository         = (*PetsRepo)(nil)
	_ catalog.Repository      = (*CatalogRepo)(nil)
	_ appointments.Repository = (*AppointmentsRepo)(nil)
	_ boarding.Repository     = (*BoardingRepo)(nil)
	_ billing.Repository      = (*BillingRepo)(nil)
)
