package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPeriodsElapsed(t *testing.T) {
	cases := []struct {
		name   string
		start  string
		dueDay int
		asOf   string
		want   int
	}{
		{"mid month past anchor: four months elapsed", "2024-01-10", 10, "2024-04-15", 4},
		{"anchor not reached this month", "2024-01-10", 10, "2024-04-05", 3},
		{"on the anchor day the period counts", "2024-01-10", 10, "2024-04-10", 4},
		{"as-of before start is zero", "2024-06-01", 10, "2024-04-15", 0},
		{"start month, anchor reached", "2024-01-10", 10, "2024-01-10", 1},
		{"start month, anchor not reached", "2024-01-05", 10, "2024-01-05", 0},
		{"year boundary", "2023-11-15", 15, "2024-02-20", 4},
		{"first of month anchor", "2024-01-01", 1, "2024-03-31", 3},
		{"late anchor across february", "2024-01-28", 28, "2024-02-27", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PeriodsElapsed(date(tc.start), tc.dueDay, date(tc.asOf))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPeriodsElapsedNeverNegative(t *testing.T) {
	starts := []string{"2024-01-10", "2025-12-31", "2030-06-15"}
	for _, s := range starts {
		require.Zero(t, PeriodsElapsed(date(s), 10, date("2020-01-01")))
	}
}

func TestPeriodAt(t *testing.T) {
	start := date("2024-01-10")

	first := PeriodAt(start, 10, 0)
	require.Equal(t, date("2024-01-10"), first.Start)
	require.Equal(t, date("2024-02-10"), first.End)

	// December rollover lands on the next year's anchor.
	dec := PeriodAt(start, 10, 11)
	require.Equal(t, date("2024-12-10"), dec.Start)
	require.Equal(t, date("2025-01-10"), dec.End)
}

func TestCurrentPeriod(t *testing.T) {
	start := date("2024-01-10")

	// Mid-April with anchor passed: fourth period (index 3).
	p := CurrentPeriod(start, 10, date("2024-04-15"))
	require.Equal(t, date("2024-04-10"), p.Start)
	require.Equal(t, date("2024-05-10"), p.End)

	// Before the lease begins the first period is reported.
	p = CurrentPeriod(start, 10, date("2023-12-01"))
	require.Equal(t, date("2024-01-10"), p.Start)
}

func TestNextDueDate(t *testing.T) {
	require.Equal(t, date("2024-05-10"), NextDueDate(10, date("2024-04-15")))
	require.Equal(t, date("2024-04-10"), NextDueDate(10, date("2024-04-05")))
	// On the due day itself the next occurrence is strictly after today.
	require.Equal(t, date("2024-05-10"), NextDueDate(10, date("2024-04-10")))
	// December advances into the next year.
	require.Equal(t, date("2025-01-15"), NextDueDate(15, date("2024-12-20")))
}

func TestAggregateSkipsUnclearedPayments(t *testing.T) {
	payments := []Payment{
		{Amount: 25000, Status: StatusCompleted},
		{Amount: 25000, Status: StatusPending},
		{Amount: 25000, Status: StatusFailed},
		{Amount: 25000, Status: StatusCompleted},
	}
	total, months := Aggregate(payments, 25000)
	require.Equal(t, 50000.0, total)
	require.Equal(t, 2, months)
}

func TestAggregateWholeMonthCredit(t *testing.T) {
	payments := []Payment{
		{Amount: 30000, Status: StatusCompleted},
		{Amount: 10000, Status: StatusCompleted},
	}
	total, months := Aggregate(payments, 25000)
	require.Equal(t, 40000.0, total)
	// 1.6 months of cash is still one whole month of credit.
	require.Equal(t, 1, months)
}

func TestClassifyOneMonthBehind(t *testing.T) {
	// Lease starts 2024-01-10, due day 10, rent 25000, three payments of
	// 25000, as of 2024-04-15.
	elapsed := PeriodsElapsed(date("2024-01-10"), 10, date("2024-04-15"))
	require.Equal(t, 4, elapsed)

	payments := []Payment{
		{Amount: 25000, Status: StatusCompleted},
		{Amount: 25000, Status: StatusCompleted},
		{Amount: 25000, Status: StatusCompleted},
	}
	total, months := Aggregate(payments, 25000)
	require.Equal(t, 75000.0, total)
	require.Equal(t, 3, months)

	expected, balance, behind := Classify(elapsed, months, total, 25000)
	require.Equal(t, 100000.0, expected)
	require.Equal(t, 25000.0, balance)
	require.Equal(t, 1, behind)
}

func TestClassifyCreditBalanceNeverNegative(t *testing.T) {
	expected, balance, behind := Classify(2, 5, 125000, 25000)
	require.Equal(t, 50000.0, expected)
	require.Equal(t, -75000.0, balance)
	require.Zero(t, behind)
}

func TestPeriodPaidIsAMembershipTest(t *testing.T) {
	window := Period{Start: date("2024-04-10"), End: date("2024-05-10")}

	require.True(t, PeriodPaid([]Payment{
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-04-10"), PeriodEnd: date("2024-05-09")},
	}, window))

	// Overlap at the tail of the window still counts.
	require.True(t, PeriodPaid([]Payment{
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-05-01"), PeriodEnd: date("2024-06-01")},
	}, window))

	// Earlier coverage does not.
	require.False(t, PeriodPaid([]Payment{
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-03-10"), PeriodEnd: date("2024-04-09")},
	}, window))

	// Pending payments never satisfy the current period.
	require.False(t, PeriodPaid([]Payment{
		{Amount: 25000, Status: StatusPending, PeriodStart: date("2024-04-10"), PeriodEnd: date("2024-05-09")},
	}, window))
}

func TestBuildSnapshotThreePaymentsFourPeriods(t *testing.T) {
	payments := []Payment{
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-01-10"), PeriodEnd: date("2024-02-09")},
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-02-10"), PeriodEnd: date("2024-03-09")},
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-03-10"), PeriodEnd: date("2024-04-09")},
	}

	snap, err := BuildSnapshot(date("2024-01-10"), 10, 25000, payments, date("2024-04-15"))
	require.NoError(t, err)
	require.Equal(t, 4, snap.PeriodsElapsed)
	require.Equal(t, 100000.0, snap.ExpectedTotal)
	require.Equal(t, 75000.0, snap.TotalPaid)
	require.Equal(t, 25000.0, snap.BalanceDue)
	require.Equal(t, 1, snap.MonthsBehind)
	require.Equal(t, date("2024-05-10"), snap.NextDueDate)
	// Cumulatively one month behind, and the April window itself is unpaid.
	require.False(t, snap.CurrentPeriodPaid)
}

func TestBuildSnapshotZeroPayments(t *testing.T) {
	snap, err := BuildSnapshot(date("2024-01-10"), 10, 25000, nil, date("2024-04-15"))
	require.NoError(t, err)
	require.Zero(t, snap.TotalPaid)
	require.Zero(t, snap.MonthsPaid)
	require.Equal(t, snap.ExpectedTotal, snap.BalanceDue)
	require.Equal(t, 4, snap.MonthsBehind)
}

func TestBuildSnapshotIsIdempotent(t *testing.T) {
	payments := []Payment{
		{Amount: 25000, Status: StatusCompleted, PeriodStart: date("2024-01-10"), PeriodEnd: date("2024-02-09")},
	}
	a, err := BuildSnapshot(date("2024-01-10"), 10, 25000, payments, date("2024-04-15"))
	require.NoError(t, err)
	b, err := BuildSnapshot(date("2024-01-10"), 10, 25000, payments, date("2024-04-15"))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestBuildSnapshotRejectsBadSchedule(t *testing.T) {
	_, err := BuildSnapshot(date("2024-01-10"), 31, 25000, nil, date("2024-04-15"))
	require.ErrorIs(t, err, ErrInvalidDueDay)

	_, err = BuildSnapshot(date("2024-01-10"), 10, 0, nil, date("2024-04-15"))
	require.ErrorIs(t, err, ErrInvalidRent)
}
