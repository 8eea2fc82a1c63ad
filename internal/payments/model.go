package payments

import (
	"strings"
	"time"

	"github.com/rentfolio/rentfolio/internal/ledger"
)

// Payment is a recorded rent payment against a lease. PeriodStart/PeriodEnd
// describe the billing window the payer intended to cover; the reconciliation
// arithmetic itself treats cleared cash as fungible.
type Payment struct {
	ID          int64                `json:"id"`
	LeaseID     int64                `json:"lease_id"`
	Amount      float64              `json:"amount"`
	PaymentDate time.Time            `json:"payment_date"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	Method      string               `json:"method"`
	Reference   string               `json:"reference"`
	Status      ledger.PaymentStatus `json:"status"`
	Notes       string               `json:"notes,omitempty"`
	AdminID     int64                `json:"admin_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NormalizeStatus maps legacy spellings onto the canonical enum. Historic
// records used "paid" and arbitrary casing where the canonical value is
// "completed".
func NormalizeStatus(s string) (ledger.PaymentStatus, bool) {
	switch strings.ToLower(s) {
	case "paid", string(ledger.StatusCompleted):
		return ledger.StatusCompleted, true
	case string(ledger.StatusPending):
		return ledger.StatusPending, true
	case string(ledger.StatusFailed):
		return ledger.StatusFailed, true
	}
	return "", false
}

// LedgerPayment converts the stored row into engine input.
func (p Payment) LedgerPayment() ledger.Payment {
	return ledger.Payment{
		Amount:      p.Amount,
		PaidAt:      p.PaymentDate,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		Status:      p.Status,
	}
}
