package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentfolio/rentfolio/internal/leases"
	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

const idempotencyModule = "payments"

// LeaseSource resolves the lease a payment is recorded against.
type LeaseSource interface {
	ActiveByUnit(ctx context.Context, unitID int64) (*leases.Lease, error)
	Get(ctx context.Context, id int64) (*leases.Lease, error)
}

// IdempotencyChecker guards against double-recording the same reference.
// Satisfied by shared.IdempotencyStore.
type IdempotencyChecker interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// RecordResult pairs the stored payment with the lease's fresh ledger
// snapshot so the caller sees the reconciled balance in one round trip.
type RecordResult struct {
	Payment  *Payment        `json:"payment"`
	Snapshot ledger.Snapshot `json:"snapshot"`
}

type Service struct {
	repo        Repository
	leaseSource LeaseSource
	idempotency IdempotencyChecker
	now         func() time.Time
}

func NewService(repo Repository, leaseSource LeaseSource, idempotency IdempotencyChecker) *Service {
	return &Service{
		repo:        repo,
		leaseSource: leaseSource,
		idempotency: idempotency,
		now:         time.Now,
	}
}

// RecordPayment stores a payment against the unit's active lease and returns
// the recomputed ledger snapshot. A repeated reference is a conflict, not a
// second payment.
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest, adminID int64) (*RecordResult, error) {
	paymentDate, err := shared.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: payment_date: %v", httpx.ErrValidation, err)
	}
	periodStart, err := shared.ParseDate(req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: period_start: %v", httpx.ErrValidation, err)
	}
	periodEnd, err := shared.ParseDate(req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: period_end: %v", httpx.ErrValidation, err)
	}

	now := s.now()
	if paymentDate.After(now) {
		return nil, fmt.Errorf("%w: payment_date is in the future", httpx.ErrValidation)
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: period_end precedes period_start", httpx.ErrValidation)
	}

	status := ledger.StatusCompleted
	if req.Status != "" {
		normalized, ok := NormalizeStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown payment status %q", httpx.ErrValidation, req.Status)
		}
		status = normalized
	}

	lease, err := s.leaseSource.ActiveByUnit(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}

	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}
	if err := s.idempotency.CheckAndInsert(ctx, reference, idempotencyModule); err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			return nil, fmt.Errorf("%w: payment reference %s already recorded", httpx.ErrConflict, reference)
		}
		return nil, fmt.Errorf("idempotency check: %w", err)
	}

	p := Payment{
		LeaseID:     lease.ID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Method:      req.Method,
		Reference:   reference,
		Status:      status,
		Notes:       req.Notes,
		AdminID:     adminID,
	}
	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		// Free the reference so a retry after a transient failure can succeed.
		_ = s.idempotency.Delete(ctx, reference)
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshotForLease(ctx, lease, now)
	if err != nil {
		return nil, err
	}
	return &RecordResult{Payment: stored, Snapshot: snapshot}, nil
}

// Snapshot reconciles one lease's ledger as of the given date.
func (s *Service) Snapshot(ctx context.Context, leaseID int64, asOf time.Time) (ledger.Snapshot, error) {
	lease, err := s.leaseSource.Get(ctx, leaseID)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.snapshotForLease(ctx, lease, asOf)
}

func (s *Service) snapshotForLease(ctx context.Context, lease *leases.Lease, asOf time.Time) (ledger.Snapshot, error) {
	history, err := s.repo.ListByLease(ctx, lease.ID)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load payment history: %w", err)
	}
	engineInput := make([]ledger.Payment, 0, len(history))
	for _, p := range history {
		engineInput = append(engineInput, p.LedgerPayment())
	}
	snapshot, err := ledger.BuildSnapshot(lease.StartDate, lease.DueDay, lease.MonthlyRent, engineInput, asOf)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return snapshot, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: payment %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// Recent returns the latest recorded payments for dashboard display.
func (s *Service) Recent(ctx context.Context, adminID int64, n int) ([]Payment, error) {
	if n <= 0 || n > 100 {
		n = 5
	}
	return s.repo.LastN(ctx, adminID, n)
}

func (s *Service) Search(ctx context.Context, req SearchPaymentsRequest) ([]Payment, int, error) {
	if req.Status != "" {
		normalized, ok := NormalizeStatus(req.Status)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown payment status %q", httpx.ErrValidation, req.Status)
		}
		req.Status = string(normalized)
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, 0, fmt.Errorf("%w: to precedes from", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.Search(ctx, req)
}

// UpdateStatus transitions a payment's settlement state, e.g. marking a
// pending check completed once it clears.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*Payment, error) {
	status, ok := NormalizeStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment status %q", httpx.ErrValidation, rawStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, string(status)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: payment %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return s.repo.Get(ctx, id)
}
