package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repo { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_name, date, time, duration_minutes, status,
	room, room_name, type, physician, physician_id,
	phone, email, notes, insurance, referral, created_at, updated_at`

func (r *repoPG) scanAppt(row pgx.Row) (Appointment, error) {
	var (
		a    Appointment
		date time.Time
	)
	err := row.Scan(&a.ID, &a.PatientName, &date, &a.Time, &a.DurationMinutes, &a.Status,
		&a.Room, &a.RoomName, &a.Type, &a.Physician, &a.PhysicianID,
		&a.Phone, &a.Email, &a.Notes, &a.Insurance, &a.Referral, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	a.Date = DateOf(date)
	return a, err
}

func (r *repoPG) Create(ctx context.Context, a Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_name, date, time, duration_minutes, status,
			room, room_name, type, physician, physician_id,
			phone, email, notes, insurance, referral)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		a.ID, a.PatientName, a.Date.Time(), a.Time, a.DurationMinutes, a.Status,
		a.Room, a.RoomName, a.Type, a.Physician, a.PhysicianID,
		a.Phone, a.Email, a.Notes, a.Insurance, a.Referral)
	if isUniqueViolation(err) {
		return ErrDuplicateID
	}
	return err
}

func (r *repoPG) Get(ctx context.Context, id string) (Appointment, error) {
	return r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET patient_name=$2, date=$3, time=$4, duration_minutes=$5, status=$6,
			room=$7, room_name=$8, type=$9, physician=$10, physician_id=$11,
			phone=$12, email=$13, notes=$14, insurance=$15, referral=$16, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientName, a.Date.Time(), a.Time, a.DurationMinutes, a.Status,
		a.Room, a.RoomName, a.Type, a.Physician, a.PhysicianID,
		a.Phone, a.Email, a.Notes, a.Insurance, a.Referral)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointment SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, c Criteria) ([]Appointment, error) {
	query := `SELECT ` + apptCols + ` FROM appointment WHERE 1=1`
	var args []interface{}
	idx := 1

	if len(c.Rooms) > 0 {
		query += fmt.Sprintf(` AND room = ANY($%d)`, idx)
		args = append(args, c.Rooms)
		idx++
	}
	if len(c.Physicians) > 0 {
		query += fmt.Sprintf(` AND physician_id = ANY($%d)`, idx)
		args = append(args, c.Physicians)
		idx++
	}
	if len(c.Statuses) > 0 {
		ss := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			ss[i] = string(s)
		}
		query += fmt.Sprintf(` AND status = ANY($%d)`, idx)
		args = append(args, ss)
		idx++
	}
	if len(c.Types) > 0 {
		query += fmt.Sprintf(` AND type = ANY($%d)`, idx)
		args = append(args, c.Types)
		idx++
	}
	if c.Query != "" {
		query += fmt.Sprintf(` AND (patient_name ILIKE $%d OR physician ILIKE $%d OR type ILIKE $%d OR phone ILIKE $%d)`, idx, idx, idx, idx)
		args = append(args, "%"+c.Query+"%")
		idx++
	}
	if !c.From.IsZero() {
		query += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, c.From.Time())
		idx++
	}
	if !c.To.IsZero() {
		query += fmt.Sprintf(` AND date <= $%d`, idx)
		args = append(args, c.To.Time())
		idx++
	}

	query += ` ORDER BY date ASC, time ASC, id ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
