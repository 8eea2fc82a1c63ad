package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	updates := make(map[string]any)
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
		case errors.Is(err, ErrDuplicate):
			return nil, fmt.Errorf("%w: email already taken", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Get(ctx, id)
}

// ChangePassword verifies the caller's current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id int64, req ChangePasswordRequest) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return fmt.Errorf("%w: current password does not match", httpx.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetPasswordHash(ctx, id, string(hash)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user %d", httpx.ErrNotFound, id)
		}
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}
