package leases

import "time"

// LeaseStatus tracks the lease lifecycle. A lease is created active and can
// only move to ended; there is no way back.
type LeaseStatus string

const (
	StatusActive LeaseStatus = "active"
	StatusEnded  LeaseStatus = "ended"
)

// Lease binds a tenant to a unit with a billing schedule. At most one active
// lease may exist per unit, enforced both in the assignment transaction and
// by a partial unique index on the table.
type Lease struct {
	ID          int64       `json:"id"`
	UnitID      int64       `json:"unit_id"`
	TenantID    int64       `json:"tenant_id"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	MonthlyRent float64     `json:"monthly_rent"`
	DueDay      int         `json:"due_day"`
	Status      LeaseStatus `json:"status"`
	AdminID     int64       `json:"admin_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// UnitInfo is the slice of unit state the lease lifecycle reads and writes.
// Declared locally to keep this package decoupled from the unit CRUD module.
type UnitInfo struct {
	ID          int64
	PropertyID  int64
	Status      string
	MonthlyRent float64
	AdminID     int64
}

// TenantInput is the tenant record created as part of an assignment.
type TenantInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	MoveInDate time.Time
	AdminID    int64
}

// AccountInput is the optional portal login created with the tenant.
type AccountInput struct {
	Username     string
	Email        string
	PasswordHash string
}
