package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payments: record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Payment, error)
	ListByLease(ctx context.Context, leaseID int64) ([]Payment, error)
	LastN(ctx context.Context, adminID int64, n int) ([]Payment, error)
	Search(ctx context.Context, req SearchPaymentsRequest) ([]Payment, int, error)
	Insert(ctx context.Context, p Payment) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const paymentColumns = `id, lease_id, amount, payment_date, period_start, period_end, method, reference, status, notes, admin_id, created_at, updated_at`

type paymentScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row paymentScanner) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.LeaseID, &p.Amount, &p.PaymentDate, &p.PeriodStart, &p.PeriodEnd,
		&p.Method, &p.Reference, &p.Status, &p.Notes, &p.AdminID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

func (r *repository) ListByLease(ctx context.Context, leaseID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE lease_id = $1 ORDER BY payment_date, id`, leaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) LastN(ctx context.Context, adminID int64, n int) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE admin_id = $1 ORDER BY payment_date DESC, id DESC LIMIT $2`, adminID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repository) Search(ctx context.Context, req SearchPaymentsRequest) ([]Payment, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.LeaseID > 0 {
		conditions = append(conditions, fmt.Sprintf("lease_id = $%d", argPos))
		args = append(args, req.LeaseID)
		argPos++
	}
	if req.UnitID > 0 {
		conditions = append(conditions, fmt.Sprintf("lease_id IN (SELECT id FROM leases WHERE unit_id = $%d)", argPos))
		args = append(args, req.UnitID)
		argPos++
	}
	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("payment_date >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("payment_date <= $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}
	if req.Method != "" {
		conditions = append(conditions, fmt.Sprintf("method = $%d", argPos))
		args = append(args, req.Method)
		argPos++
	}
	if req.Reference != "" {
		conditions = append(conditions, fmt.Sprintf("reference ILIKE $%d", argPos))
		args = append(args, "%"+req.Reference+"%")
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
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM payments "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+paymentColumns+` FROM payments %s ORDER BY payment_date DESC, id DESC LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) Insert(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO payments (lease_id, amount, payment_date, period_start, period_end, method, reference, status, notes, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()) RETURNING id`,
		p.LeaseID, p.Amount, p.PaymentDate, p.PeriodStart, p.PeriodEnd, p.Method, p.Reference, p.Status, p.Notes, p.AdminID).Scan(&id)
	return id, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]Payment, error) {
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
