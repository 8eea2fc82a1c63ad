package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/leases"
	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

type fakePaymentRepo struct {
	rows   map[int64]*Payment
	nextID int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: make(map[int64]*Payment), nextID: 1}
}

func (f *fakePaymentRepo) Get(_ context.Context, id int64) (*Payment, error) {
	if p, ok := f.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakePaymentRepo) ListByLease(_ context.Context, leaseID int64) ([]Payment, error) {
	var out []Payment
	for _, p := range f.rows {
		if p.LeaseID == leaseID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) LastN(_ context.Context, _ int64, n int) ([]Payment, error) {
	var out []Payment
	for _, p := range f.rows {
		out = append(out, *p)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Search(_ context.Context, _ SearchPaymentsRequest) ([]Payment, int, error) {
	var out []Payment
	for _, p := range f.rows {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakePaymentRepo) Insert(_ context.Context, p Payment) (int64, error) {
	id := f.nextID
	f.nextID++
	p.ID = id
	f.rows[id] = &p
	return id, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	p, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = ledger.PaymentStatus(status)
	return nil
}

type fakeLeaseSource struct {
	lease *leases.Lease
}

func (f *fakeLeaseSource) ActiveByUnit(_ context.Context, unitID int64) (*leases.Lease, error) {
	if f.lease != nil && f.lease.UnitID == unitID && f.lease.Status == leases.StatusActive {
		cp := *f.lease
		return &cp, nil
	}
	return nil, httpx.ErrNotFound
}

func (f *fakeLeaseSource) Get(_ context.Context, id int64) (*leases.Lease, error) {
	if f.lease != nil && f.lease.ID == id {
		cp := *f.lease
		return &cp, nil
	}
	return nil, httpx.ErrNotFound
}

type fakeIdempotency struct {
	seen map[string]struct{}
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{seen: make(map[string]struct{})}
}

func (f *fakeIdempotency) CheckAndInsert(_ context.Context, key, _ string) error {
	if _, ok := f.seen[key]; ok {
		return shared.ErrIdempotencyConflict
	}
	f.seen[key] = struct{}{}
	return nil
}

func (f *fakeIdempotency) Delete(_ context.Context, key string) error {
	delete(f.seen, key)
	return nil
}

func testLease() *leases.Lease {
	return &leases.Lease{
		ID:          1,
		UnitID:      5,
		TenantID:    2,
		StartDate:   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 30000,
		DueDay:      10,
		Status:      leases.StatusActive,
	}
}

func newTestService(repo Repository, source LeaseSource, idem IdempotencyChecker, now time.Time) *Service {
	svc := NewService(repo, source, idem)
	svc.now = func() time.Time { return now }
	return svc
}

func recordReq() RecordPaymentRequest {
	return RecordPaymentRequest{
		UnitID:      5,
		Amount:      30000,
		PaymentDate: "2024-01-10",
		PeriodStart: "2024-01-10",
		PeriodEnd:   "2024-02-10",
		Method:      "bank_transfer",
		Reference:   "TXN-001",
	}
}

func TestRecordPaymentReturnsSnapshot(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	result, err := svc.RecordPayment(context.Background(), recordReq(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Payment.LeaseID)
	require.Equal(t, ledger.StatusCompleted, result.Payment.Status)
	require.Equal(t, 1, result.Snapshot.PeriodsElapsed)
	require.Equal(t, 30000.0, result.Snapshot.TotalPaid)
	require.Equal(t, 0.0, result.Snapshot.BalanceDue)
	require.Equal(t, 0, result.Snapshot.MonthsBehind)
	require.True(t, result.Snapshot.CurrentPeriodPaid)
}

func TestRecordPaymentDuplicateReference(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	repo := newFakePaymentRepo()
	svc := newTestService(repo, &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	_, err := svc.RecordPayment(context.Background(), recordReq(), 1)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), recordReq(), 1)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Len(t, repo.rows, 1)
}

func TestRecordPaymentGeneratesReference(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	req := recordReq()
	req.Reference = ""
	result, err := svc.RecordPayment(context.Background(), req, 1)
	require.NoError(t, err)
	require.NotEmpty(t, result.Payment.Reference)
}

func TestRecordPaymentFutureDateRejected(t *testing.T) {
	now := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	_, err := svc.RecordPayment(context.Background(), recordReq(), 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRecordPaymentNoActiveLease(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	ended := testLease()
	ended.Status = leases.StatusEnded
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: ended}, newFakeIdempotency(), now)

	_, err := svc.RecordPayment(context.Background(), recordReq(), 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRecordPaymentLegacyPaidStatus(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	req := recordReq()
	req.Status = "paid"
	result, err := svc.RecordPayment(context.Background(), req, 1)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCompleted, result.Payment.Status)
}

func TestNormalizeStatusCaseVariants(t *testing.T) {
	for _, raw := range []string{"Paid", "PAID", "COMPLETED", "Pending", "FAILED"} {
		_, ok := NormalizeStatus(raw)
		require.True(t, ok, raw)
	}

	status, ok := NormalizeStatus("Paid")
	require.True(t, ok)
	require.Equal(t, ledger.StatusCompleted, status)

	_, ok = NormalizeStatus("refunded")
	require.False(t, ok)
}

func TestRecordPaymentPendingExcludedFromTotals(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newFakePaymentRepo(), &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	req := recordReq()
	req.Status = "pending"
	result, err := svc.RecordPayment(context.Background(), req, 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.Snapshot.TotalPaid)
	require.Equal(t, 4, result.Snapshot.MonthsBehind)
	require.False(t, result.Snapshot.CurrentPeriodPaid)
}

func TestSnapshotThreeMonthsPartial(t *testing.T) {
	now := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)
	repo := newFakePaymentRepo()
	idem := newFakeIdempotency()
	svc := newTestService(repo, &fakeLeaseSource{lease: testLease()}, idem, now)

	for i, ref := range []string{"TXN-A", "TXN-B", "TXN-C"} {
		req := recordReq()
		req.Amount = 25000
		req.Reference = ref
		req.PaymentDate = time.Date(2024, time.Month(i+1), 10, 0, 0, 0, 0, time.UTC).Format(shared.DateLayout)
		req.PeriodStart = req.PaymentDate
		req.PeriodEnd = time.Date(2024, time.Month(i+2), 10, 0, 0, 0, 0, time.UTC).Format(shared.DateLayout)
		_, err := svc.RecordPayment(context.Background(), req, 1)
		require.NoError(t, err)
	}

	snapshot, err := svc.Snapshot(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 4, snapshot.PeriodsElapsed)
	require.Equal(t, 75000.0, snapshot.TotalPaid)
	require.Equal(t, 45000.0, snapshot.BalanceDue)
	require.Equal(t, 2, snapshot.MonthsPaid)
	require.Equal(t, 2, snapshot.MonthsBehind)
}

func TestUpdateStatusNormalizes(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	repo := newFakePaymentRepo()
	svc := newTestService(repo, &fakeLeaseSource{lease: testLease()}, newFakeIdempotency(), now)

	req := recordReq()
	req.Status = "pending"
	result, err := svc.RecordPayment(context.Background(), req, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), result.Payment.ID, "paid")
	require.NoError(t, err)
	require.Equal(t, ledger.StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), result.Payment.ID, "refunded")
	require.ErrorIs(t, err, httpx.ErrValidation)
}
