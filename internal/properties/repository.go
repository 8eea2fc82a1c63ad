package properties

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("properties: record not found")
	ErrHasDependents = errors.New("properties: units still reference property")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Property, error)
	List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error)
	Create(ctx context.Context, p Property) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Property, error) {
	var p Property
	err := r.pool.QueryRow(ctx, `SELECT id, address, city, state, zip_code, admin_id, created_at, updated_at FROM properties WHERE id = $1`, id).
		Scan(&p.ID, &p.Address, &p.City, &p.State, &p.ZipCode, &p.AdminID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(address ILIKE $%d OR city ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM properties "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, address, city, state, zip_code, admin_id, created_at, updated_at
FROM properties %s ORDER BY city, address LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.ZipCode, &p.AdminID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Property) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO properties (address, city, state, zip_code, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`, p.Address, p.City, p.State, p.ZipCode, p.AdminID).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE properties SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"address", "city", "state", "zip_code"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
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
