package units

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("units: record not found")
	ErrHasDependents = errors.New("units: leases still reference unit")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Unit, error)
	List(ctx context.Context, req ListUnitsRequest) ([]Unit, int, error)
	Create(ctx context.Context, u Unit) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const unitColumns = `id, property_id, unit_number, unit_name, status, monthly_rent, deposit_amount, admin_id, created_at, updated_at`

func scanUnit(row pgx.Row) (*Unit, error) {
	var u Unit
	err := row.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.UnitName, &u.Status, &u.MonthlyRent, &u.DepositAmount, &u.AdminID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListUnitsRequest) ([]Unit, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.PropertyID > 0 {
		conditions = append(conditions, fmt.Sprintf("property_id = $%d", argPos))
		args = append(args, req.PropertyID)
		argPos++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, req.Status)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM units "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+unitColumns+` FROM units %s ORDER BY property_id, unit_number LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.UnitName, &u.Status, &u.MonthlyRent, &u.DepositAmount, &u.AdminID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, u Unit) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO units (property_id, unit_number, unit_name, status, monthly_rent, deposit_amount, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id`,
		u.PropertyID, u.UnitNumber, u.UnitName, u.Status, u.MonthlyRent, u.DepositAmount, u.AdminID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE units SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"unit_number", "unit_name", "monthly_rent", "deposit_amount"} {
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
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
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
