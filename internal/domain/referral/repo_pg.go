package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repo {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const referralCols = `id, patient_name, phone, email, referring_doctor, physician,
	target_specialty, intervention, urgency, consultation_reason, establishment,
	insurance, notes, status, created_at, updated_at`

func scanReferral(row pgx.Row) (Referral, error) {
	var ref Referral
	err := row.Scan(
		&ref.ID, &ref.PatientName, &ref.Phone, &ref.Email, &ref.ReferringDoctor,
		&ref.Physician, &ref.TargetSpecialty, &ref.Intervention, &ref.Urgency,
		&ref.ConsultationReason, &ref.Establishment, &ref.Insurance, &ref.Notes,
		&ref.Status, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Referral{}, ErrNotFound
	}
	return ref, err
}

func (r *repoPG) List(ctx context.Context, c Criteria) ([]Referral, error) {
	query := `SELECT ` + referralCols + ` FROM referral`

	var (
		where []string
		args  []interface{}
		idx   = 1
	)
	if len(c.Statuses) > 0 {
		statuses := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", idx))
		args = append(args, statuses)
		idx++
	}
	if c.Query != "" {
		where = append(where, fmt.Sprintf(
			"(patient_name ILIKE $%d OR physician ILIKE $%d OR referring_doctor ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+c.Query+"%")
		idx++
	}
	if c.From != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", idx))
		args = append(args, *c.From)
		idx++
	}
	if c.To != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", idx))
		args = append(args, *c.To)
		idx++
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *repoPG) Get(ctx context.Context, id string) (Referral, error) {
	return scanReferral(r.conn(ctx).QueryRow(ctx,
		`SELECT `+referralCols+` FROM referral WHERE id = $1`, id))
}

func (r *repoPG) Create(ctx context.Context, ref Referral) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral (
			id, patient_name, phone, email, referring_doctor, physician,
			target_specialty, intervention, urgency, consultation_reason,
			establishment, insurance, notes, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		ref.ID, ref.PatientName, ref.Phone, ref.Email, ref.ReferringDoctor,
		ref.Physician, ref.TargetSpecialty, ref.Intervention, ref.Urgency,
		ref.ConsultationReason, ref.Establishment, ref.Insurance, ref.Notes,
		ref.Status)
	return err
}

func (r *repoPG) Update(ctx context.Context, ref Referral) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE referral SET
			patient_name=$2, phone=$3, email=$4, referring_doctor=$5, physician=$6,
			target_specialty=$7, intervention=$8, urgency=$9, consultation_reason=$10,
			establishment=$11, insurance=$12, notes=$13, status=$14, updated_at=NOW()
		WHERE id = $1`,
		ref.ID, ref.PatientName, ref.Phone, ref.Email, ref.ReferringDoctor,
		ref.Physician, ref.TargetSpecialty, ref.Intervention, ref.Urgency,
		ref.ConsultationReason, ref.Establishment, ref.Insurance, ref.Notes,
		ref.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM referral WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
