package units

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateUnitRequest, adminID int64) (*Unit, error) {
	u := Unit{
		PropertyID:    req.PropertyID,
		UnitNumber:    req.UnitNumber,
		UnitName:      req.UnitName,
		Status:        StatusVacant,
		MonthlyRent:   req.MonthlyRent,
		DepositAmount: req.DepositAmount,
		AdminID:       adminID,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: property %d", httpx.ErrNotFound, req.PropertyID)
		}
		return nil, fmt.Errorf("create unit: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Unit, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: unit %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, req ListUnitsRequest) ([]Unit, int, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown unit status %q", httpx.ErrValidation, req.Status)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUnitRequest) (*Unit, error) {
	updates := make(map[string]any)
	if req.UnitNumber != nil {
		updates["unit_number"] = *req.UnitNumber
	}
	if req.UnitName != nil {
		updates["unit_name"] = *req.UnitName
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = *req.MonthlyRent
	}
	if req.DepositAmount != nil {
		updates["deposit_amount"] = *req.DepositAmount
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: unit %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update unit: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: unit %d", httpx.ErrNotFound, id)
	case errors.Is(err, ErrHasDependents):
		return fmt.Errorf("%w: unit %d still has leases", httpx.ErrConflict, id)
	}
	return err
}
