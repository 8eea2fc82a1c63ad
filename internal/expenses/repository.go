package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("expenses: record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error)
	Create(ctx context.Context, e Expense) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const expenseColumns = `id, lease_id, expense_date, amount, description, reference, paid_by, admin_id, created_at, updated_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.LeaseID, &e.ExpenseDate, &e.Amount, &e.Description, &e.Reference, &e.PaidBy, &e.AdminID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.LeaseID > 0 {
		conditions = append(conditions, fmt.Sprintf("lease_id = $%d", argPos))
		args = append(args, req.LeaseID)
		argPos++
	}
	if req.PaidBy != "" {
		conditions = append(conditions, fmt.Sprintf("paid_by = $%d", argPos))
		args = append(args, req.PaidBy)
		argPos++
	}
	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("expense_date <= $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM expenses "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+expenseColumns+` FROM expenses %s ORDER BY expense_date DESC, id DESC LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.LeaseID, &e.ExpenseDate, &e.Amount, &e.Description, &e.Reference, &e.PaidBy, &e.AdminID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, e Expense) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO expenses (lease_id, expense_date, amount, description, reference, paid_by, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id`,
		e.LeaseID, e.ExpenseDate, e.Amount, e.Description, e.Reference, e.PaidBy, e.AdminID).Scan(&id)
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
	query := "UPDATE expenses SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"description", "amount", "reference", "paid_by"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
