package properties

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

func (s *Service) Create(ctx context.Context, req CreatePropertyRequest, adminID int64) (*Property, error) {
	p := Property{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		AdminID: adminID,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Property, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePropertyRequest) (*Property, error) {
	updates := make(map[string]any)
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.ZipCode != nil {
		updates["zip_code"] = *req.ZipCode
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
	case errors.Is(err, ErrHasDependents):
		return fmt.Errorf("%w: property %d still has units", httpx.ErrConflict, id)
	}
	return err
}
