package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-center/internal/apperrors"
	"pet-care-center/internal/domain/appointments"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/platform/calendar"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type AppointmentsRepo struct {
	db *sqlx.DB
}

func NewAppointmentsRepo(db *sqlx.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

type appointmentRow struct {
	ID           string          `db:"id"`
	PetID        string          `db:"pet_id"`
	ServiceID    string          `db:"service_id"`
	StaffID      sql.NullString  `db:"staff_id"`
	Date         time.Time       `db:"date"`
	Time         string          `db:"time"`
	Status       string          `db:"status"`
	Notes        string          `db:"notes"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
	OwnerID      string          `db:"owner_id"`
	PetName      string          `db:"pet_name"`
	ServiceName  string          `db:"service_name"`
	ServicePrice decimal.Decimal `db:"service_price"`
	BillID       sql.NullString  `db:"bill_id"`
}

func (r appointmentRow) toDomain() (appointments.Appointment, error) {
	tod, err := calendar.ParseTimeOfDay(r.Time)
	if err != nil {
		return appointments.Appointment{}, fmt.Errorf("appointment %s: %w", r.ID, err)
	}
	return appointments.Appointment{
		ID:           r.ID,
		PetID:        r.PetID,
		ServiceID:    r.ServiceID,
		StaffID:      r.StaffID.String,
		Date:         calendar.Date(r.Date),
		Time:         tod,
		Status:       appointments.Status(r.Status),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		OwnerID:      r.OwnerID,
		PetName:      r.PetName,
		ServiceName:  r.ServiceName,
		ServicePrice: r.ServicePrice,
		BillID:       r.BillID.String,
	}, nil
}

// TIME se lee como texto HH:MM.
const appointmentSelect = `
	SELECT a.id, a.pet_id, a.service_id, a.staff_id, a.date, to_char(a.time, 'HH24:MI') AS time,
	       a.status, a.notes, a.created_at, a.updated_at,
	       p.owner_id, p.name AS pet_name, s.name AS service_name, s.price AS service_price,
	       b.id AS bill_id
	FROM appointments a
	JOIN pets p ON p.id = a.pet_id
	JOIN services s ON s.id = a.service_id
	LEFT JOIN billing b ON b.appointment_id = a.id
`

func (r *AppointmentsRepo) Create(ctx context.Context, ownerID string, a appointments.Appointment, bill *billing.Bill) error {
	if !validID(a.PetID) {
		return apperrors.ErrInvalidSelection
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var owner string
		err := tx.GetContext(ctx, &owner, `SELECT owner_id FROM pets WHERE id = $1 FOR SHARE`, a.PetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrInvalidSelection
			}
			return err
		}
		if owner != ownerID {
			return apperrors.ErrOwnership
		}

		var active bool
		err = tx.GetContext(ctx, &active, `SELECT status = 'active' FROM services WHERE id = $1 FOR SHARE`, a.ServiceID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if !active {
			return apperrors.ErrInvalidSelection
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO appointments (id, pet_id, service_id, staff_id, date, time, status, notes, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			a.ID,
			a.PetID,
			a.ServiceID,
			nullString(a.StaffID),
			a.Date,
			a.Time.String(),
			string(a.Status),
			a.Notes,
			a.CreatedAt,
			a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert appointments: %w", err)
		}

		if bill != nil {
			return insertBill(ctx, tx, *bill)
		}
		return nil
	})
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	if !validID(id) {
		return appointments.Appointment{}, apperrors.ErrNotFound
	}
	return getAppointment(ctx, r.db, appointmentSelect+` WHERE a.id = $1`, id)
}

func (r *AppointmentsRepo) List(ctx context.Context, ownerID string, f appointments.ListFilter) ([]appointments.Appointment, error) {
	conds := []string{"p.owner_id = $1"}
	args := []any{ownerID}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}
	if f.PetID != "" {
		if !validID(f.PetID) {
			return []appointments.Appointment{}, nil
		}
		add("a.pet_id = $%d", f.PetID)
	}
	if f.ServiceID != "" {
		add("a.service_id = $%d", f.ServiceID)
	}
	if f.DateFrom != nil {
		add("a.date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("a.date <= $%d", *f.DateTo)
	}

	var rows []appointmentRow
	q := appointmentSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY a.date DESC, a.time DESC`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make([]appointments.Appointment, 0, len(rows))
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AppointmentsRepo) CountByStatus(ctx context.Context, ownerID string) (map[appointments.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT a.status, COUNT(*) AS count
		FROM appointments a
		JOIN pets p ON p.id = a.pet_id
		WHERE p.owner_id = $1
		GROUP BY a.status
	`, ownerID); err != nil {
		return nil, err
	}

	out := make(map[appointments.Status]int, len(rows))
	for _, row := range rows {
		out[appointments.Status(row.Status)] = row.Count
	}
	return out, nil
}

func (r *AppointmentsRepo) Transition(ctx context.Context, id, ownerID string, fn func(*appointments.Appointment) error) (appointments.Appointment, error) {
	var out appointments.Appointment
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		a, err := lockAppointment(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		if err := fn(&a); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE appointments SET status = $2, notes = $3, updated_at = $4 WHERE id = $1
		`, id, string(a.Status), a.Notes, a.UpdatedAt); err != nil {
			return fmt.Errorf("update appointments: %w", err)
		}
		out = a
		return nil
	})
	return out, err
}

func (r *AppointmentsRepo) CreateBill(ctx context.Context, id, ownerID string, fn appointments.BillFunc) (billing.Bill, error) {
	var out billing.Bill
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		a, err := lockAppointment(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		if a.BillID != "" {
			return apperrors.ErrAlreadyBilled
		}

		b, err := fn(a)
		if err != nil {
			return err
		}
		if err := insertBill(ctx, tx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

// lockAppointment toma FOR UPDATE sólo sobre la fila de appointments.
func lockAppointment(ctx context.Context, tx *sqlx.Tx, id, ownerID string) (appointments.Appointment, error) {
	if !validID(id) {
		return appointments.Appointment{}, apperrors.ErrNotFound
	}
	a, err := getAppointment(ctx, tx, appointmentSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id)
	if err != nil {
		return appointments.Appointment{}, err
	}
	if a.OwnerID != ownerID {
		return appointments.Appointment{}, apperrors.ErrOwnership
	}
	return a, nil
}

func getAppointment(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (appointments.Appointment, error) {
	var row appointmentRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return appointments.Appointment{}, notFound(err)
	}
	return row.toDomain()
}
