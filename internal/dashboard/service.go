package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rentfolio/rentfolio/internal/ledger"
)

// Summary is the portfolio-level view for one calendar month.
type Summary struct {
	Month            string            `json:"month"`
	PropertyCount    int               `json:"property_count"`
	UnitCount        int               `json:"unit_count"`
	OccupiedCount    int               `json:"occupied_count"`
	OccupancyRate    float64           `json:"occupancy_rate"`
	PotentialRent    float64           `json:"potential_rent"`
	CollectedInMonth float64           `json:"collected_in_month"`
	ExpensesInMonth  float64           `json:"expenses_in_month"`
	NetInMonth       float64           `json:"net_in_month"`
	OutstandingTotal float64           `json:"outstanding_total"`
	ArrearsTotal     float64           `json:"arrears_total"`
	OpenMaintenance  int               `json:"open_maintenance"`
	Delinquent       []DelinquentLease `json:"delinquent"`
}

// DelinquentLease flags a lease at least one month behind.
type DelinquentLease struct {
	LeaseID      int64   `json:"lease_id"`
	UnitID       int64   `json:"unit_id"`
	TenantID     int64   `json:"tenant_id"`
	MonthsBehind int     `json:"months_behind"`
	BalanceDue   float64 `json:"balance_due"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Summary aggregates the portfolio for the month. Outstanding is the month's
// rent minus the month's cleared payments, summed per lease with each balance
// floored at zero, so one tenant's prepayment never hides another tenant's
// arrears. Arrears is the lifetime shortfall under the same per-lease floor.
func (s *Service) Summary(ctx context.Context, adminID int64, month time.Time) (*Summary, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	stats, err := s.repo.Stats(ctx, adminID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	asOf := s.now()
	summary := &Summary{
		Month:            from.Format("2006-01"),
		PropertyCount:    stats.PropertyCount,
		UnitCount:        stats.UnitCount,
		OccupiedCount:    stats.OccupiedCount,
		PotentialRent:    stats.PotentialRent,
		CollectedInMonth: stats.CollectedInRange,
		ExpensesInMonth:  stats.ExpensesInRange,
		NetInMonth:       stats.CollectedInRange - stats.ExpensesInRange,
		OpenMaintenance:  stats.OpenMaintenance,
		Delinquent:       []DelinquentLease{},
	}
	if stats.UnitCount > 0 {
		summary.OccupancyRate = math.Round(float64(stats.OccupiedCount)/float64(stats.UnitCount)*10000) / 100
	}

	for _, lb := range stats.LeaseBalances {
		elapsed := ledger.PeriodsElapsed(lb.StartDate, lb.DueDay, asOf)
		expected := float64(elapsed) * lb.MonthlyRent
		balance := expected - lb.TotalPaid

		if short := lb.MonthlyRent - lb.CollectedInRange; short > 0 {
			summary.OutstandingTotal += short
		}
		if balance > 0 {
			summary.ArrearsTotal += balance
		}

		monthsPaid := int(math.Floor(lb.TotalPaid / lb.MonthlyRent))
		behind := elapsed - monthsPaid
		if behind >= 1 {
			summary.Delinquent = append(summary.Delinquent, DelinquentLease{
				LeaseID:      lb.LeaseID,
				UnitID:       lb.UnitID,
				TenantID:     lb.TenantID,
				MonthsBehind: behind,
				BalanceDue:   balance,
			})
		}
	}

	return summary, nil
}
