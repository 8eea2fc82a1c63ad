package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateTenantRequest, adminID int64) (*Tenant, error) {
	t := Tenant{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		AdminID:                adminID,
	}
	if req.DateOfBirth != "" {
		dob, err := shared.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: date_of_birth: %v", httpx.ErrValidation, err)
		}
		t.DateOfBirth = &dob
	}
	if req.MoveInDate != "" {
		moveIn, err := shared.ParseDate(req.MoveInDate)
		if err != nil {
			return nil, fmt.Errorf("%w: move_in_date: %v", httpx.ErrValidation, err)
		}
		t.MoveInDate = &moveIn
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email %s already registered", httpx.ErrConflict, req.Email)
		}
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Tenant, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, req ListTenantsRequest) ([]Tenant, int, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateTenantRequest) (*Tenant, error) {
	updates := make(map[string]any)
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.EmergencyContactName != nil {
		updates["emergency_contact_name"] = *req.EmergencyContactName
	}
	if req.EmergencyContactNumber != nil {
		updates["emergency_contact_number"] = *req.EmergencyContactNumber
	}
	if req.MoveOutDate != nil {
		moveOut, err := shared.ParseDate(*req.MoveOutDate)
		if err != nil {
			return nil, fmt.Errorf("%w: move_out_date: %v", httpx.ErrValidation, err)
		}
		updates["move_out_date"] = moveOut
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
		case errors.Is(err, ErrDuplicateEmail):
			return nil, fmt.Errorf("%w: email already registered", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
	case errors.Is(err, ErrHasDependents):
		return fmt.Errorf("%w: tenant %d still has leases", httpx.ErrConflict, id)
	}
	return err
}
