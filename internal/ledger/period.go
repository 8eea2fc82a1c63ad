package ledger

import "time"

// PeriodsElapsed counts the billing periods that have begun between the lease
// start and asOf. The whole-month difference is computed by calendar
// year/month subtraction, then one more period is added once asOf has reached
// the anchor day of the current month. The anchor is always the due day;
// the lease start day plays no part in the count.
//
// A lease that has not started yet has zero elapsed periods, never a
// negative count.
func PeriodsElapsed(start time.Time, dueDay int, asOf time.Time) int {
	if asOf.Before(start) {
		return 0
	}
	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if asOf.Day() >= dueDay {
		months++
	}
	if months < 0 {
		return 0
	}
	return months
}

// PeriodAt returns the boundaries of the n-th billing period (zero-based)
// under the lease, anchored to the due day of the start month. time.Date
// normalises the month offset, so December rollovers land on the following
// year's anchor and never produce an invalid date.
func PeriodAt(start time.Time, dueDay int, n int) Period {
	from := time.Date(start.Year(), start.Month()+time.Month(n), dueDay, 0, 0, 0, 0, start.Location())
	to := time.Date(start.Year(), start.Month()+time.Month(n+1), dueDay, 0, 0, 0, 0, start.Location())
	return Period{Start: from, End: to}
}

// CurrentPeriod returns the billing window asOf falls in. Before the first
// anchor has been reached the first period is reported, since that is the
// obligation the next payment will be credited against.
func CurrentPeriod(start time.Time, dueDay int, asOf time.Time) Period {
	n := PeriodsElapsed(start, dueDay, asOf)
	if n > 0 {
		n--
	}
	return PeriodAt(start, dueDay, n)
}

// NextDueDate returns the first anchor-day occurrence strictly after asOf.
// When asOf's day-of-month has reached the anchor the rollover advances to
// the next month's anchor.
func NextDueDate(dueDay int, asOf time.Time) time.Time {
	year, month, _ := asOf.Date()
	if asOf.Day() >= dueDay {
		month++
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, asOf.Location())
}
