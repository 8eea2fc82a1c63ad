package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
)

type fakeRepo struct {
	rows   map[int64]*Request
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]*Request), nextID: 1}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Request, error) {
	if m, ok := f.rows[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListRequest) ([]Request, int, error) {
	var out []Request
	for _, m := range f.rows {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Create(_ context.Context, m Request) (int64, error) {
	id := f.nextID
	f.nextID++
	m.ID = id
	f.rows[id] = &m
	return id, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id int64, status RequestStatus, cost *float64, resolvedAt *time.Time) error {
	m, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	m.Status = status
	if cost != nil {
		m.Cost = cost
	}
	m.ResolvedAt = resolvedAt
	return nil
}

func openTicket(t *testing.T, svc *Service) *Request {
	t.Helper()
	m, err := svc.Create(context.Background(), CreateRequest{
		LeaseID:     5,
		Description: "Leaking kitchen faucet, cabinet below is getting damp.",
		Priority:    "medium",
	}, 1)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, m.Status)
	require.False(t, m.RequestDate.IsZero())
	return m
}

func TestResolveStampsTime(t *testing.T) {
	svc := NewService(newFakeRepo())
	svc.now = func() time.Time { return time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC) }
	m := openTicket(t, svc)

	cost := 120.0
	resolved, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusResolved, Cost: &cost})
	require.NoError(t, err)
	require.Equal(t, StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.Cost)
	require.Equal(t, 120.0, *resolved.Cost)
}

func TestReopenClearsResolvedAt(t *testing.T) {
	svc := NewService(newFakeRepo())
	m := openTicket(t, svc)

	_, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusResolved})
	require.NoError(t, err)

	reopened, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusOpen})
	require.NoError(t, err)
	require.Nil(t, reopened.ResolvedAt)
}

func TestResolvedToInProgressRejected(t *testing.T) {
	svc := NewService(newFakeRepo())
	m := openTicket(t, svc)

	_, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusResolved})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusInProgress})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestUnknownStatusRejected(t *testing.T) {
	svc := NewService(newFakeRepo())
	m := openTicket(t, svc)

	_, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: "closed"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSameStatusIsNoOp(t *testing.T) {
	svc := NewService(newFakeRepo())
	m := openTicket(t, svc)

	same, err := svc.UpdateStatus(context.Background(), m.ID, UpdateStatusRequest{Status: StatusOpen})
	require.NoError(t, err)
	require.Equal(t, StatusOpen, same.Status)
}
