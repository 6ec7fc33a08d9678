package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/platform/calendar"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type BillingRepo struct {
	db *sqlx.DB
}

func NewBillingRepo(db *sqlx.DB) *BillingRepo {
	return &BillingRepo{db: db}
}

type billRow struct {
	ID            string          `db:"id"`
	OwnerID       string          `db:"owner_id"`
	AppointmentID sql.NullString  `db:"appointment_id"`
	BillDate      time.Time       `db:"bill_date"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	PaymentStatus string          `db:"payment_status"`
	PaymentMethod sql.NullString  `db:"payment_method"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r billRow) toDomain() billing.Bill {
	return billing.Bill{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		AppointmentID: r.AppointmentID.String,
		BillDate:      calendar.Date(r.BillDate),
		TotalAmount:   r.TotalAmount,
		PaymentStatus: billing.PaymentStatus(r.PaymentStatus),
		PaymentMethod: billing.PaymentMethod(r.PaymentMethod.String),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type detailRow struct {
	ID              string          `db:"id"`
	BillID          string          `db:"bill_id"`
	ServiceID       sql.NullString  `db:"service_id"`
	ServiceName     sql.NullString  `db:"service_name"`
	InventoryItemID sql.NullString  `db:"inventory_item_id"`
	Description     string          `db:"description"`
	Quantity        int             `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	Subtotal        decimal.Decimal `db:"subtotal"`
}

type paymentRow struct {
	ID      string          `db:"id"`
	BillID  string          `db:"bill_id"`
	OwnerID string          `db:"owner_id"`
	Amount  decimal.Decimal `db:"amount"`
	Method  string          `db:"payment_method"`
	PaidAt  time.Time       `db:"paid_at"`
}

const billColumns = `id, owner_id, appointment_id, bill_date, total_amount, payment_status, payment_method, notes, created_at, updated_at`

// insertBill inserta cabecera y detalles dentro de tx.
func insertBill(ctx context.Context, tx *sqlx.Tx, b billing.Bill) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO billing (`+billColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		b.ID,
		b.OwnerID,
		nullString(b.AppointmentID),
		b.BillDate,
		b.TotalAmount,
		string(b.PaymentStatus),
		nullString(string(b.PaymentMethod)),
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert billing: %w", err)
	}

	for _, d := range b.Details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bill_details (id, bill_id, service_id, inventory_item_id, description, quantity, unit_price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			d.ID,
			b.ID,
			nullString(d.ServiceID),
			nullString(d.InventoryItemID),
			d.Description,
			d.Quantity,
			d.UnitPrice,
			d.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert bill_details: %w", err)
		}
	}
	return nil
}

func (r *BillingRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	if !validID(id) {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	var row billRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+billColumns+` FROM billing WHERE id = $1`, id); err != nil {
		return billing.Bill{}, notFound(err)
	}

	var details []detailRow
	if err := r.db.SelectContext(ctx, &details, `
		SELECT d.id, d.bill_id, d.service_id, s.name AS service_name, d.inventory_item_id,
		       d.description, d.quantity, d.unit_price, d.subtotal
		FROM bill_details d
		LEFT JOIN services s ON s.id = d.service_id
		WHERE d.bill_id = $1
		ORDER BY d.description ASC
	`, id); err != nil {
		return billing.Bill{}, err
	}

	b := row.toDomain()
	for _, d := range details {
		b.Details = append(b.Details, billing.Detail{
			ID:              d.ID,
			BillID:          d.BillID,
			ServiceID:       d.ServiceID.String,
			ServiceName:     d.ServiceName.String,
			InventoryItemID: d.InventoryItemID.String,
			Description:     d.Description,
			Quantity:        d.Quantity,
			UnitPrice:       d.UnitPrice,
			Subtotal:        d.Subtotal,
		})
	}
	return b, nil
}

func (r *BillingRepo) List(ctx context.Context, ownerID string, f billing.ListFilter) ([]billing.Bill, error) {
	conds := []string{"owner_id = $1"}
	args := []any{ownerID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("bill_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("bill_date <= $%d", len(args)))
	}

	var rows []billRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+billColumns+`
		FROM billing
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY bill_date DESC, created_at DESC
	`, args...); err != nil {
		return nil, err
	}

	out := make([]billing.Bill, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BillingRepo) Payments(ctx context.Context, billID string) ([]billing.Payment, error) {
	if !validID(billID) {
		return []billing.Payment{}, nil
	}
	var rows []paymentRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, bill_id, owner_id, amount, payment_method, paid_at
		FROM payment_history
		WHERE bill_id = $1
		ORDER BY paid_at ASC
	`, billID); err != nil {
		return nil, err
	}

	out := make([]billing.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, billing.Payment{
			ID:      row.ID,
			BillID:  row.BillID,
			OwnerID: row.OwnerID,
			Amount:  row.Amount,
			Method:  billing.PaymentMethod(row.Method),
			PaidAt:  row.PaidAt,
		})
	}
	return out, nil
}

func (r *BillingRepo) PaidTotal(ctx context.Context, billID string) (decimal.Decimal, error) {
	return paidTotal(ctx, r.db, billID)
}

func (r *BillingRepo) PaidTotals(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	var rows []struct {
		BillID string          `db:"bill_id"`
		Paid   decimal.Decimal `db:"paid"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT b.id AS bill_id, COALESCE(SUM(p.amount), 0) AS paid
		FROM billing b
		LEFT JOIN payment_history p ON p.bill_id = b.id
		WHERE b.owner_id = $1
		GROUP BY b.id
	`, ownerID); err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.BillID] = row.Paid
	}
	return out, nil
}

// ApplyPayment bloquea la fila de billing (FOR UPDATE) así dos pagos
// concurrentes no leen la misma suma.
func (r *BillingRepo) ApplyPayment(ctx context.Context, billID, ownerID string, fn billing.PaymentFunc) (billing.Bill, error) {
	if !validID(billID) {
		return billing.Bill{}, apperrors.ErrNotFound
	}
	var out billing.Bill
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row billRow
		if err := tx.GetContext(ctx, &row, `SELECT `+billColumns+` FROM billing WHERE id = $1 FOR UPDATE`, billID); err != nil {
			return notFound(err)
		}
		if row.OwnerID != ownerID {
			return apperrors.ErrOwnership
		}
		b := row.toDomain()

		paid, err := paidTotal(ctx, tx, billID)
		if err != nil {
			return err
		}

		p, err := fn(b, paid)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payment_history (id, bill_id, owner_id, amount, payment_method, paid_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, p.ID, billID, p.OwnerID, p.Amount, string(p.Method), p.PaidAt); err != nil {
			return fmt.Errorf("insert payment_history: %w", err)
		}

		b.PaymentStatus = billing.StatusAfter(b.TotalAmount, paid.Add(p.Amount))
		b.PaymentMethod = p.Method
		b.UpdatedAt = p.PaidAt
		if _, err := tx.ExecContext(ctx, `
			UPDATE billing SET payment_status = $2, payment_method = $3, updated_at = $4
			WHERE id = $1
		`, billID, string(b.PaymentStatus), string(b.PaymentMethod), b.UpdatedAt); err != nil {
			return fmt.Errorf("update billing: %w", err)
		}

		out = b
		return nil
	})
	return out, err
}

func paidTotal(ctx context.Context, q sqlx.QueryerContext, billID string) (decimal.Decimal, error) {
	if !validID(billID) {
		return decimal.Zero, nil
	}
	var paid decimal.Decimal
	err := sqlx.GetContext(ctx, q, &paid, `
		SELECT COALESCE(SUM(amount), 0) FROM payment_history WHERE bill_id = $1
	`, billID)
	return paid, err
}
