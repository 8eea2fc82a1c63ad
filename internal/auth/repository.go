package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/users"
)

var ErrNotFound = errors.New("auth: account not found")

// Repository exposes the subset of account storage login needs.
type Repository interface {
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*users.User, error)
	FindByID(ctx context.Context, id int64) (*users.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, role, last_login, is_active, created_at, updated_at
FROM users WHERE username = $1 OR email = $1`, identifier)

	var u users.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.LastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, role, last_login, is_active, created_at, updated_at
FROM users WHERE id = $1`, id)

	var u users.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.LastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}
