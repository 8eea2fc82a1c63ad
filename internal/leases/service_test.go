package leases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
)

// fakeRepo keeps everything in memory and restores a snapshot when the
// transactional callback fails, mirroring a rollback.
type fakeRepo struct {
	units   map[int64]*UnitInfo
	leases  map[int64]*Lease
	tenants map[int64]*TenantInput
	users   map[string]struct{}
	nextID  int64

	failTenantInsert bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		units:   make(map[int64]*UnitInfo),
		leases:  make(map[int64]*Lease),
		tenants: make(map[int64]*TenantInput),
		users:   make(map[string]struct{}),
		nextID:  1,
	}
}

func (f *fakeRepo) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) snapshot() *fakeRepo {
	cp := newFakeRepo()
	cp.nextID = f.nextID
	for k, v := range f.units {
		u := *v
		cp.units[k] = &u
	}
	for k, v := range f.leases {
		l := *v
		cp.leases[k] = &l
	}
	for k, v := range f.tenants {
		t := *v
		cp.tenants[k] = &t
	}
	for k := range f.users {
		cp.users[k] = struct{}{}
	}
	return cp
}

func (f *fakeRepo) restore(s *fakeRepo) {
	f.units = s.units
	f.leases = s.leases
	f.tenants = s.tenants
	f.users = s.users
	f.nextID = s.nextID
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Lease, error) {
	if l, ok := f.leases[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ ListLeasesRequest) ([]Lease, int, error) {
	var out []Lease
	for _, l := range f.leases {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetActiveByUnit(_ context.Context, unitID int64) (*Lease, error) {
	for _, l := range f.leases {
		if l.UnitID == unitID && l.Status == StatusActive {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	before := f.snapshot()
	if err := fn(ctx, f); err != nil {
		f.restore(before)
		return err
	}
	return nil
}

func (f *fakeRepo) GetUnitForUpdate(_ context.Context, unitID int64) (*UnitInfo, error) {
	if u, ok := f.units[unitID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUnitNotFound
}

func (f *fakeRepo) InsertTenant(_ context.Context, t TenantInput) (int64, error) {
	if f.failTenantInsert {
		return 0, errors.New("tenant insert refused")
	}
	id := f.id()
	f.tenants[id] = &t
	return id, nil
}

func (f *fakeRepo) InsertAccount(_ context.Context, a AccountInput) (int64, error) {
	if _, ok := f.users[a.Username]; ok {
		return 0, ErrDuplicateUser
	}
	f.users[a.Username] = struct{}{}
	return f.id(), nil
}

func (f *fakeRepo) InsertLease(_ context.Context, l Lease) (int64, error) {
	for _, existing := range f.leases {
		if existing.UnitID == l.UnitID && existing.Status == StatusActive {
			return 0, ErrActiveExists
		}
	}
	id := f.id()
	l.ID = id
	f.leases[id] = &l
	return id, nil
}

func (f *fakeRepo) SetUnitStatus(_ context.Context, unitID int64, status string) error {
	u, ok := f.units[unitID]
	if !ok {
		return ErrUnitNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeRepo) EndLease(_ context.Context, leaseID int64, endDate time.Time) error {
	l, ok := f.leases[leaseID]
	if !ok || l.Status != StatusActive {
		return ErrNotFound
	}
	l.Status = StatusEnded
	l.EndDate = &endDate
	return nil
}

func vacantUnit(id int64, rent float64) *UnitInfo {
	return &UnitInfo{ID: id, PropertyID: 1, Status: "vacant", MonthlyRent: rent, AdminID: 1}
}

func assignReq(unitID int64) AssignTenantRequest {
	return AssignTenantRequest{
		UnitID:      unitID,
		FirstName:   "Ada",
		LastName:    "Osei",
		Email:       "ada@example.com",
		Phone:       "555-0100",
		StartDate:   "2024-01-10",
		MonthlyRent: 30000,
		DueDay:      10,
	}
}

func TestAssignTenantCreatesActiveLease(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	lease, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)
	require.Equal(t, StatusActive, lease.Status)
	require.Equal(t, int64(5), lease.UnitID)
	require.NotZero(t, lease.TenantID)
	require.Equal(t, "occupied", repo.units[5].Status)
	require.Len(t, repo.tenants, 1)
}

func TestAssignTenantDefaultsRentFromUnit(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 27500)
	svc := NewService(repo)

	req := assignReq(5)
	req.MonthlyRent = 0
	lease, err := svc.AssignTenant(context.Background(), req, 1)
	require.NoError(t, err)
	require.Equal(t, 27500.0, lease.MonthlyRent)
}

func TestAssignTenantOccupiedUnitConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	_, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)

	req := assignReq(5)
	req.Email = "second@example.com"
	_, err = svc.AssignTenant(context.Background(), req, 1)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Len(t, repo.tenants, 1, "conflicting assignment must not leave a tenant behind")
}

func TestAssignTenantUnknownUnit(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.AssignTenant(context.Background(), assignReq(99), 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestAssignTenantBadDueDay(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	req := assignReq(5)
	req.DueDay = 31
	_, err := svc.AssignTenant(context.Background(), req, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAssignTenantEndBeforeStart(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	req := assignReq(5)
	req.EndDate = "2023-12-01"
	_, err := svc.AssignTenant(context.Background(), req, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAssignTenantRollsBackOnFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	repo.failTenantInsert = true
	svc := NewService(repo)

	_, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.Error(t, err)
	require.Equal(t, "vacant", repo.units[5].Status)
	require.Empty(t, repo.leases)
	require.Empty(t, repo.tenants)
}

func TestAssignTenantWithPortalAccount(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	req := assignReq(5)
	req.Password = "portal-pass-1"
	_, err := svc.AssignTenant(context.Background(), req, 1)
	require.NoError(t, err)
	require.Contains(t, repo.users, "ada@example.com")
}

func TestEndLeaseFreesUnit(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	lease, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)

	ended, err := svc.EndLease(context.Background(), lease.ID, EndLeaseRequest{EndDate: "2024-06-30"})
	require.NoError(t, err)
	require.Equal(t, StatusEnded, ended.Status)
	require.NotNil(t, ended.EndDate)
	require.Equal(t, "vacant", repo.units[5].Status)
}

func TestEndLeaseTwiceConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	lease, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)

	_, err = svc.EndLease(context.Background(), lease.ID, EndLeaseRequest{EndDate: "2024-06-30"})
	require.NoError(t, err)

	_, err = svc.EndLease(context.Background(), lease.ID, EndLeaseRequest{EndDate: "2024-07-31"})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestEndLeaseBeforeStart(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	lease, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)

	_, err = svc.EndLease(context.Background(), lease.ID, EndLeaseRequest{EndDate: "2023-12-31"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReassignAfterEnd(t *testing.T) {
	repo := newFakeRepo()
	repo.units[5] = vacantUnit(5, 30000)
	svc := NewService(repo)

	lease, err := svc.AssignTenant(context.Background(), assignReq(5), 1)
	require.NoError(t, err)
	_, err = svc.EndLease(context.Background(), lease.ID, EndLeaseRequest{EndDate: "2024-06-30"})
	require.NoError(t, err)

	req := assignReq(5)
	req.Email = "next-tenant@example.com"
	req.StartDate = "2024-07-01"
	next, err := svc.AssignTenant(context.Background(), req, 1)
	require.NoError(t, err)
	require.Equal(t, StatusActive, next.Status)
	require.Equal(t, "occupied", repo.units[5].Status)
}
