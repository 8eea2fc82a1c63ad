package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stats *RawStats
}

func (s *stubRepo) Stats(_ context.Context, _ int64, _, _ time.Time) (*RawStats, error) {
	return s.stats, nil
}

func fixedService(stats *RawStats, now time.Time) *Service {
	svc := NewService(&stubRepo{stats: stats})
	svc.now = func() time.Time { return now }
	return svc
}

func TestSummaryEmptyPortfolio(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{}, now)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.OccupancyRate)
	require.Equal(t, 0.0, summary.OutstandingTotal)
	require.Empty(t, summary.Delinquent)
}

func TestSummaryOccupancyRounded(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{UnitCount: 3, OccupiedCount: 2}, now)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 66.67, summary.OccupancyRate)
}

func TestSummaryNoCrossLeaseOffset(t *testing.T) {
	// One lease paid this month, the other did not. The first lease's surplus
	// must not cancel the second's shortfall.
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{
		UnitCount:     2,
		OccupiedCount: 2,
		LeaseBalances: []LeaseBalance{
			{LeaseID: 1, UnitID: 1, TenantID: 1, StartDate: start, DueDay: 10, MonthlyRent: 1000, TotalPaid: 5000, CollectedInRange: 2000},
			{LeaseID: 2, UnitID: 2, TenantID: 2, StartDate: start, DueDay: 10, MonthlyRent: 1000, TotalPaid: 3000, CollectedInRange: 0},
		},
	}, now)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)
	// Lease 1 is over-collected this month (floored to 0), lease 2 owes 1000.
	require.Equal(t, 1000.0, summary.OutstandingTotal)
	// 4 periods elapsed: lease 1 is 1000 in credit (floored), lease 2 is 1000 short.
	require.Equal(t, 1000.0, summary.ArrearsTotal)
	require.Len(t, summary.Delinquent, 1)
	require.Equal(t, int64(2), summary.Delinquent[0].LeaseID)
	require.Equal(t, 1, summary.Delinquent[0].MonthsBehind)
}

func TestSummaryOutstandingIsCurrentMonthNotLifetime(t *testing.T) {
	// A lease four periods behind still owes only one month's rent for the
	// requested month; the lifetime shortfall is reported separately.
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{
		UnitCount:     1,
		OccupiedCount: 1,
		LeaseBalances: []LeaseBalance{
			{LeaseID: 1, UnitID: 1, TenantID: 1, StartDate: start, DueDay: 10, MonthlyRent: 1000},
		},
	}, now)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 1000.0, summary.OutstandingTotal)
	require.Equal(t, 4000.0, summary.ArrearsTotal)
	require.Len(t, summary.Delinquent, 1)
	require.Equal(t, 4, summary.Delinquent[0].MonthsBehind)
	require.Equal(t, 4000.0, summary.Delinquent[0].BalanceDue)
}

func TestSummaryPotentialRentCountsVacantUnits(t *testing.T) {
	// Potential rent comes from the units table, so a vacant unit's rent is
	// part of the figure even though it has no active lease.
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{
		UnitCount:     2,
		OccupiedCount: 1,
		PotentialRent: 1800,
		LeaseBalances: []LeaseBalance{
			{LeaseID: 1, UnitID: 1, TenantID: 1, StartDate: start, DueDay: 10, MonthlyRent: 1000, TotalPaid: 4000, CollectedInRange: 1000},
		},
	}, now)

	summary, err := svc.Summary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 1800.0, summary.PotentialRent)
}

func TestSummaryNetAndMonthLabel(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := fixedService(&RawStats{CollectedInRange: 9000, ExpensesInRange: 2500}, now)

	summary, err := svc.Summary(context.Background(), 1, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2024-03", summary.Month)
	require.Equal(t, 6500.0, summary.NetInMonth)
}
