package lookup

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

// =========== Room Repository ===========

type roomRepoPG struct{ pool *pgxpool.Pool }

func NewRoomRepoPG(pool *pgxpool.Pool) RoomRepository { return &roomRepoPG{pool: pool} }

func (r *roomRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const roomCols = `id, name, color, active, created_at, updated_at`

func (r *roomRepoPG) scanRoom(row pgx.Row) (Room, error) {
	var rm Room
	err := row.Scan(&rm.ID, &rm.Name, &rm.Color, &rm.Active, &rm.CreatedAt, &rm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, ErrNotFound
	}
	return rm, err
}

func (r *roomRepoPG) List(ctx context.Context, activeOnly bool) ([]Room, error) {
	query := `SELECT ` + roomCols + ` FROM room`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Room
	for rows.Next() {
		rm, err := r.scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rm)
	}
	return items, rows.Err()
}

func (r *roomRepoPG) Get(ctx context.Context, id string) (Room, error) {
	return r.scanRoom(r.conn(ctx).QueryRow(ctx, `SELECT `+roomCols+` FROM room WHERE id = $1`, id))
}

func (r *roomRepoPG) Create(ctx context.Context, rm Room) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO room (id, name, color, active) VALUES ($1,$2,$3,$4)`,
		rm.ID, rm.Name, rm.Color, rm.Active)
	return err
}

func (r *roomRepoPG) Update(ctx context.Context, rm Room) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE room SET name=$2, color=$3, active=$4, updated_at=NOW() WHERE id = $1`,
		rm.ID, rm.Name, rm.Color, rm.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Physician Repository ===========

type physicianRepoPG struct{ pool *pgxpool.Pool }

func NewPhysicianRepoPG(pool *pgxpool.Pool) PhysicianRepository {
	return &physicianRepoPG{pool: pool}
}

func (r *physicianRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const physicianCols = `id, full_name, specialty, color, active, created_at, updated_at`

func (r *physicianRepoPG) scanPhysician(row pgx.Row) (Physician, error) {
	var p Physician
	err := row.Scan(&p.ID, &p.FullName, &p.Specialty, &p.Color, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Physician{}, ErrNotFound
	}
	return p, err
}

func (r *physicianRepoPG) List(ctx context.Context, activeOnly bool) ([]Physician, error) {
	query := `SELECT ` + physicianCols + ` FROM physician`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY full_name ASC`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Physician
	for rows.Next() {
		p, err := r.scanPhysician(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *physicianRepoPG) Get(ctx context.Context, id string) (Physician, error) {
	return r.scanPhysician(r.conn(ctx).QueryRow(ctx, `SELECT `+physicianCols+` FROM physician WHERE id = $1`, id))
}

func (r *physicianRepoPG) Create(ctx context.Context, p Physician) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO physician (id, full_name, specialty, color, active) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.FullName, p.Specialty, p.Color, p.Active)
	return err
}

func (r *physicianRepoPG) Update(ctx context.Context, p Physician) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE physician SET full_name=$2, specialty=$3, color=$4, active=$5, updated_at=NOW() WHERE id = $1`,
		p.ID, p.FullName, p.Specialty, p.Color, p.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Appointment Type Repository ===========

type typeRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentTypeRepoPG(pool *pgxpool.Pool) AppointmentTypeRepository {
	return &typeRepoPG{pool: pool}
}

func (r *typeRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *typeRepoPG) List(ctx context.Context) ([]AppointmentType, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, duration_minutes, color, created_at, updated_at
		FROM appointment_type ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AppointmentType
	for rows.Next() {
		var t AppointmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationMinutes, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *typeRepoPG) Create(ctx context.Context, t AppointmentType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment_type (id, name, duration_minutes, color) VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.DurationMinutes, t.Color)
	return err
}
