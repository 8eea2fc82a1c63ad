package leases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentfolio/rentfolio/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("leases: record not found")
	ErrUnitNotFound  = errors.New("leases: unit not found")
	ErrActiveExists  = errors.New("leases: unit already has an active lease")
	ErrDuplicateUser = errors.New("leases: portal account already exists")
)

// TxRepository is the write surface available inside an assignment or
// termination transaction. Everything either commits together or not at all.
type TxRepository interface {
	GetUnitForUpdate(ctx context.Context, unitID int64) (*UnitInfo, error)
	GetActiveByUnit(ctx context.Context, unitID int64) (*Lease, error)
	InsertTenant(ctx context.Context, t TenantInput) (int64, error)
	InsertAccount(ctx context.Context, a AccountInput) (int64, error)
	InsertLease(ctx context.Context, l Lease) (int64, error)
	SetUnitStatus(ctx context.Context, unitID int64, status string) error
	EndLease(ctx context.Context, leaseID int64, endDate time.Time) error
}

type Repository interface {
	Get(ctx context.Context, id int64) (*Lease, error)
	List(ctx context.Context, req ListLeasesRequest) ([]Lease, int, error)
	GetActiveByUnit(ctx context.Context, unitID int64) (*Lease, error)
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const leaseColumns = `id, unit_id, tenant_id, start_date, end_date, monthly_rent, due_day, status, admin_id, created_at, updated_at`

type leaseScanner interface {
	Scan(dest ...any) error
}

func scanLease(row leaseScanner) (*Lease, error) {
	var l Lease
	err := row.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate, &l.MonthlyRent, &l.DueDay, &l.Status, &l.AdminID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Lease, error) {
	return scanLease(r.pool.QueryRow(ctx, `SELECT `+leaseColumns+` FROM leases WHERE id = $1`, id))
}

func (r *repository) GetActiveByUnit(ctx context.Context, unitID int64) (*Lease, error) {
	return scanLease(r.pool.QueryRow(ctx, `SELECT `+leaseColumns+` FROM leases WHERE unit_id = $1 AND status = 'active'`, unitID))
}

func (r *repository) List(ctx context.Context, req ListLeasesRequest) ([]Lease, int, error) {
	conditions := []string{"admin_id = $1"}
	args := []any{req.AdminID}
	argPos := 2

	if req.UnitID > 0 {
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", argPos))
		args = append(args, req.UnitID)
		argPos++
	}
	if req.TenantID > 0 {
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argPos))
		args = append(args, req.TenantID)
		argPos++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, req.Status)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leases "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+leaseColumns+` FROM leases %s ORDER BY start_date DESC, id DESC LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetUnitForUpdate(ctx context.Context, unitID int64) (*UnitInfo, error) {
	var u UnitInfo
	err := r.tx.QueryRow(ctx, `SELECT id, property_id, status, monthly_rent, admin_id FROM units WHERE id = $1 FOR UPDATE`, unitID).
		Scan(&u.ID, &u.PropertyID, &u.Status, &u.MonthlyRent, &u.AdminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *txRepository) GetActiveByUnit(ctx context.Context, unitID int64) (*Lease, error) {
	return scanLease(r.tx.QueryRow(ctx, `SELECT `+leaseColumns+` FROM leases WHERE unit_id = $1 AND status = 'active'`, unitID))
}

func (r *txRepository) InsertTenant(ctx context.Context, t TenantInput) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO tenants (first_name, last_name, email, phone, move_in_date, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id`,
		t.FirstName, t.LastName, t.Email, t.Phone, t.MoveInDate, t.AdminID).Scan(&id)
	return id, err
}

func (r *txRepository) InsertAccount(ctx context.Context, a AccountInput) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO users (username, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, 'viewer', TRUE, NOW(), NOW()) RETURNING id`,
		a.Username, a.Email, a.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepository) InsertLease(ctx context.Context, l Lease) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO leases (unit_id, tenant_id, start_date, end_date, monthly_rent, due_day, status, admin_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		l.UnitID, l.TenantID, l.StartDate, l.EndDate, l.MonthlyRent, l.DueDay, l.Status, l.AdminID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrActiveExists
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepository) SetUnitStatus(ctx context.Context, unitID int64, status string) error {
	tag, err := r.tx.Exec(ctx, `UPDATE units SET status = $1, updated_at = NOW() WHERE id = $2`, status, unitID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnitNotFound
	}
	return nil
}

func (r *txRepository) EndLease(ctx context.Context, leaseID int64, endDate time.Time) error {
	tag, err := r.tx.Exec(ctx, `UPDATE leases SET status = 'ended', end_date = $1, updated_at = NOW() WHERE id = $2 AND status = 'active'`, endDate, leaseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
