package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/shared"
)

// EmailEnqueuer submits reminder emails; satisfied by *Client.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// DelinquencyScanJob reconciles every active lease and enqueues a reminder
// email per tenant at or past the threshold. Each run is also written to the
// audit log so arrears history is traceable.
type DelinquencyScanJob struct {
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
	Enqueuer EmailEnqueuer
	Audit    *shared.AuditLogger
	clock    func() time.Time
}

// NewDelinquencyScanJob initialises the scan handler.
func NewDelinquencyScanJob(pool *pgxpool.Pool, logger *slog.Logger, enqueuer EmailEnqueuer, audit *shared.AuditLogger) *DelinquencyScanJob {
	return &DelinquencyScanJob{
		Pool:     pool,
		Logger:   logger,
		Enqueuer: enqueuer,
		Audit:    audit,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type scanRow struct {
	LeaseID     int64
	StartDate   time.Time
	DueDay      int
	MonthlyRent float64
	TotalPaid   float64
	TenantName  string
	TenantEmail string
	UnitName    string
}

// Handle executes the delinquency scan.
func (j *DelinquencyScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("delinquency scan: handler not configured")
	}
	var payload DelinquencyScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MinMonthsBehind < 1 {
		payload.MinMonthsBehind = 1
	}

	asOf := j.now()
	if payload.AsOf != "" {
		parsed, err := shared.ParseDate(payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	logger := j.logger().With(slog.Time("as_of", asOf), slog.Int("min_months_behind", payload.MinMonthsBehind))
	logger.Info("starting delinquency scan")

	rows, err := j.load(ctx)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	flagged := 0
	for _, row := range rows {
		elapsed := ledger.PeriodsElapsed(row.StartDate, row.DueDay, asOf)
		_, balance, behind := ledger.Classify(elapsed, monthsPaid(row.TotalPaid, row.MonthlyRent), row.TotalPaid, row.MonthlyRent)
		if behind < payload.MinMonthsBehind {
			continue
		}
		flagged++

		logger.Warn("delinquent lease",
			slog.Int64("lease_id", row.LeaseID),
			slog.Int("months_behind", behind),
			slog.Float64("balance_due", balance),
		)

		if j.Audit != nil {
			if err := j.Audit.Record(ctx, shared.AuditLog{
				Action:   "ledger.delinquency_flag",
				Entity:   "lease",
				EntityID: fmt.Sprintf("%d", row.LeaseID),
				Meta:     map[string]any{"months_behind": behind, "balance_due": balance, "as_of": asOf.Format(shared.DateLayout)},
				At:       asOf,
			}); err != nil {
				logger.Warn("audit delinquency flag", slog.Any("error", err))
			}
		}

		if j.Enqueuer != nil && row.TenantEmail != "" {
			if _, err := j.Enqueuer.EnqueueSendEmail(ctx, SendEmailPayload{
				To:      row.TenantEmail,
				Subject: fmt.Sprintf("Rent reminder for %s", row.UnitName),
				Body: fmt.Sprintf("Hello %s,\n\nOur records show your rent is %d month(s) behind with a balance of %.2f. Please arrange payment or contact the office.\n",
					row.TenantName, behind, balance),
			}); err != nil {
				logger.Warn("enqueue reminder", slog.Int64("lease_id", row.LeaseID), slog.Any("error", err))
			}
		}
	}

	logger.Info("completed delinquency scan", slog.Int("leases", len(rows)), slog.Int("flagged", flagged))
	return nil
}

func (j *DelinquencyScanJob) load(ctx context.Context) ([]scanRow, error) {
	if j.Pool == nil {
		return nil, errors.New("delinquency scan: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT l.id, l.start_date, l.due_day, l.monthly_rent,
COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.lease_id = l.id AND p.status = 'completed'), 0),
t.first_name || ' ' || t.last_name, t.email, u.unit_name
FROM leases l
JOIN tenants t ON t.id = l.tenant_id
JOIN units u ON u.id = l.unit_id
WHERE l.status = 'active'
ORDER BY l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scanRow
	for rows.Next() {
		var row scanRow
		if err := rows.Scan(&row.LeaseID, &row.StartDate, &row.DueDay, &row.MonthlyRent, &row.TotalPaid, &row.TenantName, &row.TenantEmail, &row.UnitName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func monthsPaid(totalPaid, monthlyRent float64) int {
	if monthlyRent <= 0 {
		return 0
	}
	return int(totalPaid / monthlyRent)
}

func (j *DelinquencyScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeDelinquencyScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeDelinquencyScan))
}

func (j *DelinquencyScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
