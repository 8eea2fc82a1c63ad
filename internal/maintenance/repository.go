package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("maintenance: record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Request, error)
	List(ctx context.Context, req ListRequest) ([]Request, int, error)
	Create(ctx context.Context, m Request) (int64, error)
	SetStatus(ctx context.Context, id int64, status RequestStatus, cost *float64, resolvedAt *time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const requestColumns = `id, lease_id, request_date, description, priority, status, cost, resolved_at, admin_id, created_at, updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var m Request
	err := row.Scan(&m.ID, &m.LeaseID, &m.RequestDate, &m.Description, &m.Priority, &m.Status, &m.Cost, &m.ResolvedAt, &m.AdminID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Request, error) {
	return scanRequest(r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM maintenance_requests WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Request, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.LeaseID > 0 {
		conditions = append(conditions, fmt.Sprintf("lease_id = $%d", argPos))
		args = append(args, req.LeaseID)
		argPos++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, req.Status)
		argPos++
	}
	if req.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, req.Priority)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM maintenance_requests "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+requestColumns+` FROM maintenance_requests %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var m Request
		if err := rows.Scan(&m.ID, &m.LeaseID, &m.RequestDate, &m.Description, &m.Priority, &m.Status, &m.Cost, &m.ResolvedAt, &m.AdminID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, m Request) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO maintenance_requests (lease_id, request_date, description, priority, status, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id`,
		m.LeaseID, m.RequestDate, m.Description, m.Priority, m.Status, m.AdminID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status RequestStatus, cost *float64, resolvedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE maintenance_requests SET status = $1, cost = COALESCE($2, cost), resolved_at = $3, updated_at = NOW() WHERE id = $4`,
		status, cost, resolvedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
