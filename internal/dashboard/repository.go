package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/platform/db"
)

// RawStats is the unprocessed aggregation pulled from the database in one
// consistent read transaction.
type RawStats struct {
	PropertyCount    int
	UnitCount        int
	OccupiedCount    int
	PotentialRent    float64
	CollectedInRange float64
	ExpensesInRange  float64
	OpenMaintenance  int
	LeaseBalances    []LeaseBalance
}

// LeaseBalance carries one active lease's schedule, its lifetime cleared
// cash, and the cleared cash inside the requested range, enough for the
// service to run the ledger arithmetic.
type LeaseBalance struct {
	LeaseID          int64
	UnitID           int64
	TenantID         int64
	StartDate        time.Time
	DueDay           int
	MonthlyRent      float64
	TotalPaid        float64
	CollectedInRange float64
}

type Repository interface {
	Stats(ctx context.Context, adminID int64, from, to time.Time) (*RawStats, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Stats runs every aggregate inside one read-only RepeatableRead transaction
// so the counters and the per-lease balances describe the same instant.
func (r *repository) Stats(ctx context.Context, adminID int64, from, to time.Time) (*RawStats, error) {
	var stats RawStats
	err := db.WithReadTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE admin_id = $1`, adminID).Scan(&stats.PropertyCount); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'occupied') FROM units WHERE admin_id = $1`, adminID).
			Scan(&stats.UnitCount, &stats.OccupiedCount); err != nil {
			return err
		}
		// All units count toward potential revenue, vacant ones included.
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(monthly_rent), 0) FROM units WHERE admin_id = $1`, adminID).
			Scan(&stats.PotentialRent); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments
WHERE admin_id = $1 AND status = 'completed' AND payment_date >= $2 AND payment_date < $3`, adminID, from, to).
			Scan(&stats.CollectedInRange); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses
WHERE admin_id = $1 AND expense_date >= $2 AND expense_date < $3`, adminID, from, to).
			Scan(&stats.ExpensesInRange); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_requests WHERE admin_id = $1 AND status <> 'resolved'`, adminID).
			Scan(&stats.OpenMaintenance); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT l.id, l.unit_id, l.tenant_id, l.start_date, l.due_day, l.monthly_rent,
COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.lease_id = l.id AND p.status = 'completed'), 0),
COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.lease_id = l.id AND p.status = 'completed' AND p.payment_date >= $2 AND p.payment_date < $3), 0)
FROM leases l WHERE l.admin_id = $1 AND l.status = 'active' ORDER BY l.id`, adminID, from, to)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var lb LeaseBalance
			if err := rows.Scan(&lb.LeaseID, &lb.UnitID, &lb.TenantID, &lb.StartDate, &lb.DueDay, &lb.MonthlyRent, &lb.TotalPaid, &lb.CollectedInRange); err != nil {
				return err
			}
			stats.LeaseBalances = append(stats.LeaseBalances, lb)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
