package ledger

import (
	"math"
	"time"
)

// Aggregate sums the cleared payments and converts the cash into whole-month
// credits. Pending and failed payments are excluded. The engine does not
// allocate payments to specific periods; cumulative cash against cumulative
// obligation is treated as fungible, so partial amounts never yield
// fractional months.
func Aggregate(payments []Payment, monthlyRent float64) (totalPaid float64, monthsPaid int) {
	for _, p := range payments {
		if !p.Status.Cleared() {
			continue
		}
		totalPaid += p.Amount
	}
	monthsPaid = int(math.Floor(totalPaid / monthlyRent))
	return totalPaid, monthsPaid
}

// Classify derives the delinquency figures from the period count and the
// aggregated payments. monthsBehind is floored at zero: a credit balance
// reports zero months behind, not a negative count.
func Classify(periodsElapsed, monthsPaid int, totalPaid, monthlyRent float64) (expectedTotal, balanceDue float64, monthsBehind int) {
	expectedTotal = float64(periodsElapsed) * monthlyRent
	balanceDue = expectedTotal - totalPaid
	monthsBehind = periodsElapsed - monthsPaid
	if monthsBehind < 0 {
		monthsBehind = 0
	}
	return expectedTotal, balanceDue, monthsBehind
}

// PeriodPaid reports whether any cleared payment's coverage range overlaps
// the window. This is a period-membership test, independent of the
// cumulative monthsPaid arithmetic; the two signals may disagree and are
// reported separately.
func PeriodPaid(payments []Payment, window Period) bool {
	for _, p := range payments {
		if !p.Status.Cleared() {
			continue
		}
		if p.PeriodStart.Before(window.End) && !p.PeriodEnd.Before(window.Start) {
			return true
		}
	}
	return false
}

// BuildSnapshot runs the full engine for one lease. It is deterministic:
// the same payments and asOf always produce an identical snapshot.
func BuildSnapshot(start time.Time, dueDay int, monthlyRent float64, payments []Payment, asOf time.Time) (Snapshot, error) {
	if err := ValidateSchedule(dueDay, monthlyRent); err != nil {
		return Snapshot{}, err
	}

	elapsed := PeriodsElapsed(start, dueDay, asOf)
	totalPaid, monthsPaid := Aggregate(payments, monthlyRent)
	expected, balance, behind := Classify(elapsed, monthsPaid, totalPaid, monthlyRent)

	return Snapshot{
		AsOf:              asOf,
		PeriodsElapsed:    elapsed,
		ExpectedTotal:     expected,
		TotalPaid:         totalPaid,
		BalanceDue:        balance,
		MonthsPaid:        monthsPaid,
		MonthsBehind:      behind,
		NextDueDate:       NextDueDate(dueDay, asOf),
		CurrentPeriodPaid: PeriodPaid(payments, CurrentPeriod(start, dueDay, asOf)),
	}, nil
}
