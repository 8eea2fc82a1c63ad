package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("tenants: record not found")
	ErrDuplicateEmail = errors.New("tenants: email already registered")
	ErrHasDependents  = errors.New("tenants: leases still reference tenant")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Tenant, error)
	List(ctx context.Context, req ListTenantsRequest) ([]Tenant, int, error)
	Create(ctx context.Context, t Tenant) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const tenantColumns = `id, first_name, last_name, email, phone, date_of_birth, emergency_contact_name, emergency_contact_number, move_in_date, move_out_date, admin_id, created_at, updated_at`

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.DateOfBirth,
		&t.EmergencyContactName, &t.EmergencyContactNumber, &t.MoveInDate, &t.MoveOutDate,
		&t.AdminID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListTenantsRequest) ([]Tenant, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}
	if req.Current {
		conditions = append(conditions, "move_out_date IS NULL")
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenants "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+tenantColumns+` FROM tenants %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.DateOfBirth,
			&t.EmergencyContactName, &t.EmergencyContactNumber, &t.MoveInDate, &t.MoveOutDate,
			&t.AdminID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Tenant) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO tenants (first_name, last_name, email, phone, date_of_birth, emergency_contact_name, emergency_contact_number, move_in_date, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id`,
		t.FirstName, t.LastName, t.Email, t.Phone, t.DateOfBirth,
		t.EmergencyContactName, t.EmergencyContactNumber, t.MoveInDate, t.AdminID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE tenants SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"first_name", "last_name", "email", "phone", "emergency_contact_name", "emergency_contact_number", "move_out_date"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasDependents
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
