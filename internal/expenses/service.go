package expenses

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

func (s *Service) Create(ctx context.Context, req CreateExpenseRequest, adminID int64) (*Expense, error) {
	expenseDate, err := shared.ParseDate(req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expense_date: %v", httpx.ErrValidation, err)
	}

	e := Expense{
		LeaseID:     req.LeaseID,
		ExpenseDate: expenseDate,
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
		PaidBy:      req.PaidBy,
		AdminID:     adminID,
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: lease %d", httpx.ErrNotFound, req.LeaseID)
		}
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, 0, fmt.Errorf("%w: to precedes from", httpx.ErrValidation)
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateExpenseRequest) (*Expense, error) {
	updates := make(map[string]any)
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.PaidBy != nil {
		updates["paid_by"] = *req.PaidBy
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: expense %d", httpx.ErrNotFound, id)
		}
		return err
	}
	return nil
}
