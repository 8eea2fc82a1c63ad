package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

// Transitions a ticket may take. Reopening a resolved ticket is allowed so a
// botched repair can come back without creating a duplicate.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusOpen:       {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved, StatusOpen},
	StatusResolved:   {StatusOpen},
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest, adminID int64) (*Request, error) {
	requestDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.RequestDate != "" {
		parsed, err := shared.ParseDate(req.RequestDate)
		if err != nil {
			return nil, fmt.Errorf("%w: request_date: %v", httpx.ErrValidation, err)
		}
		requestDate = parsed
	}

	m := Request{
		LeaseID:     req.LeaseID,
		RequestDate: requestDate,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      StatusOpen,
		AdminID:     adminID,
	}
	id, err := s.repo.Create(ctx, m)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: lease %d", httpx.ErrNotFound, req.LeaseID)
		}
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Request, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: maintenance request %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]Request, int, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, req.Status)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// UpdateStatus moves a ticket along the lifecycle. Resolving stamps the
// resolution time; reopening clears it.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Request, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, req.Status)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == req.Status {
		return current, nil
	}

	legal := false
	for _, next := range allowedTransitions[current.Status] {
		if next == req.Status {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: cannot move request from %s to %s", httpx.ErrConflict, current.Status, req.Status)
	}

	var resolvedAt *time.Time
	if req.Status == StatusResolved {
		t := s.now().UTC()
		resolvedAt = &t
	}

	if err := s.repo.SetStatus(ctx, id, req.Status, req.Cost, resolvedAt); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: maintenance request %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update maintenance status: %w", err)
	}
	return s.repo.Get(ctx, id)
}
