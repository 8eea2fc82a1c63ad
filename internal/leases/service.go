package leases

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AssignTenant creates the tenant, an optional portal account, and an active
// lease, and marks the unit occupied, all inside one transaction. A unit with
// an active lease rejects the assignment; nothing is persisted on any failure.
func (s *Service) AssignTenant(ctx context.Context, req AssignTenantRequest, adminID int64) (*Lease, error) {
	startDate, err := shared.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", httpx.ErrValidation, err)
	}

	lease := Lease{
		UnitID:      req.UnitID,
		StartDate:   startDate,
		MonthlyRent: req.MonthlyRent,
		DueDay:      req.DueDay,
		Status:      StatusActive,
		AdminID:     adminID,
	}
	if req.EndDate != "" {
		endDate, err := shared.ParseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date: %v", httpx.ErrValidation, err)
		}
		if !endDate.After(startDate) {
			return nil, fmt.Errorf("%w: end_date must be after start_date", httpx.ErrValidation)
		}
		lease.EndDate = &endDate
	}

	var accountHash string
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash portal password: %w", err)
		}
		accountHash = string(hash)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		unit, err := tx.GetUnitForUpdate(ctx, req.UnitID)
		if err != nil {
			if errors.Is(err, ErrUnitNotFound) {
				return fmt.Errorf("%w: unit %d", httpx.ErrNotFound, req.UnitID)
			}
			return err
		}

		if lease.MonthlyRent == 0 {
			lease.MonthlyRent = unit.MonthlyRent
		}
		if err := ledger.ValidateSchedule(lease.DueDay, lease.MonthlyRent); err != nil {
			return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}

		if _, err := tx.GetActiveByUnit(ctx, req.UnitID); err == nil {
			return fmt.Errorf("%w: unit %d already has an active lease", httpx.ErrConflict, req.UnitID)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		tenantID, err := tx.InsertTenant(ctx, TenantInput{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			MoveInDate: startDate,
			AdminID:    adminID,
		})
		if err != nil {
			return fmt.Errorf("insert tenant: %w", err)
		}
		lease.TenantID = tenantID

		if accountHash != "" {
			if _, err := tx.InsertAccount(ctx, AccountInput{
				Username:     req.Email,
				Email:        req.Email,
				PasswordHash: accountHash,
			}); err != nil {
				if errors.Is(err, ErrDuplicateUser) {
					return fmt.Errorf("%w: portal account for %s already exists", httpx.ErrConflict, req.Email)
				}
				return fmt.Errorf("insert portal account: %w", err)
			}
		}

		leaseID, err := tx.InsertLease(ctx, lease)
		if err != nil {
			if errors.Is(err, ErrActiveExists) {
				return fmt.Errorf("%w: unit %d already has an active lease", httpx.ErrConflict, req.UnitID)
			}
			return fmt.Errorf("insert lease: %w", err)
		}
		lease.ID = leaseID

		return tx.SetUnitStatus(ctx, req.UnitID, "occupied")
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, lease.ID)
}

// EndLease moves an active lease to ended and frees the unit. Ending an
// already-ended lease is a conflict, and the end date may not precede the
// lease start.
func (s *Service) EndLease(ctx context.Context, id int64, req EndLeaseRequest) (*Lease, error) {
	endDate, err := shared.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date: %v", httpx.ErrValidation, err)
	}

	lease, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lease.Status != StatusActive {
		return nil, fmt.Errorf("%w: lease %d is not active", httpx.ErrConflict, id)
	}
	if endDate.Before(lease.StartDate) {
		return nil, fmt.Errorf("%w: end_date precedes lease start", httpx.ErrValidation)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.EndLease(ctx, id, endDate); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: lease %d is not active", httpx.ErrConflict, id)
			}
			return err
		}
		return tx.SetUnitStatus(ctx, lease.UnitID, "vacant")
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Lease, error) {
	lease, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: lease %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return lease, nil
}

func (s *Service) List(ctx context.Context, req ListLeasesRequest) ([]Lease, int, error) {
	if req.Status != "" && req.Status != StatusActive && req.Status != StatusEnded {
		return nil, 0, fmt.Errorf("%w: unknown lease status %q", httpx.ErrValidation, req.Status)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ActiveByUnit resolves the lease payments are recorded against.
func (s *Service) ActiveByUnit(ctx context.Context, unitID int64) (*Lease, error) {
	lease, err := s.repo.GetActiveByUnit(ctx, unitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no active lease on unit %d", httpx.ErrNotFound, unitID)
		}
		return nil, err
	}
	return lease, nil
}
