// Package ledger implements the rent-ledger reconciliation engine: pure
// functions that turn a lease's billing schedule and payment history into a
// statement of what is owed, what has been paid, and how far behind the
// tenant is. Nothing in this package touches a store or a clock; callers
// fetch the data and supply the as-of date.
package ledger

import (
	"errors"
	"time"
)

// PaymentStatus is the canonical settlement state of a rent payment.
type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "completed"
	StatusPending   PaymentStatus = "pending"
	StatusFailed    PaymentStatus = "failed"
)

// Cleared reports whether the payment counts toward ledger totals.
func (s PaymentStatus) Cleared() bool {
	return s == StatusCompleted
}

// Payment is the slice of a rent payment the engine needs.
type Payment struct {
	Amount      float64
	PaidAt      time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      PaymentStatus
}

// Period is one month-long billing obligation window, half-open [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Snapshot is the engine's output for a single lease at a point in time.
type Snapshot struct {
	AsOf              time.Time `json:"as_of"`
	PeriodsElapsed    int       `json:"periods_elapsed"`
	ExpectedTotal     float64   `json:"expected_total"`
	TotalPaid         float64   `json:"total_paid"`
	BalanceDue        float64   `json:"balance_due"`
	MonthsPaid        int       `json:"months_paid"`
	MonthsBehind      int       `json:"months_behind"`
	NextDueDate       time.Time `json:"next_due_date"`
	CurrentPeriodPaid bool      `json:"current_period_paid"`
}

var (
	// ErrInvalidDueDay indicates a due day outside 1..28. Days 29-31 do not
	// exist in every month and are rejected at lease creation.
	ErrInvalidDueDay = errors.New("ledger: due day must be between 1 and 28")
	// ErrInvalidRent indicates a non-positive monthly rent.
	ErrInvalidRent = errors.New("ledger: monthly rent must be positive")
)

// ValidateSchedule checks the caller contract shared by every entry point.
func ValidateSchedule(dueDay int, monthlyRent float64) error {
	if dueDay < 1 || dueDay > 28 {
		return ErrInvalidDueDay
	}
	if monthlyRent <= 0 {
		return ErrInvalidRent
	}
	return nil
}
