package postgres

import (
	"context"
	"time"

	"pet-care-center/internal/domain/catalog"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

type serviceRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Duration    int             `db:"duration"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r serviceRow) toDomain() catalog.Service {
	return catalog.Service{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Duration:    r.Duration,
		Status:      catalog.Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

const serviceColumns = `id, name, description, price, duration, status, created_at`

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (catalog.Service, error) {
	var row serviceRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id); err != nil {
		return catalog.Service{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *CatalogRepo) ListActive(ctx context.Context) ([]catalog.Service, error) {
	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE status = 'active'
		ORDER BY name ASC
	`); err != nil {
		return nil, err
	}

	out := make([]catalog.Service, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
