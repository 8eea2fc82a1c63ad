package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/users"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks the credentials and records the login time. It returns
// the same opaque error for unknown accounts and bad passwords.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*users.User, error) {
	u, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: account disabled", httpx.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}
	u.LastLogin = &now
	return u, nil
}

// CurrentUser resolves the account behind an authenticated session.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*users.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: account %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}
