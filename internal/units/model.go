package units

import "time"

// UnitStatus enumerates rentable-space occupancy states.
type UnitStatus string

const (
	StatusVacant   UnitStatus = "vacant"
	StatusOccupied UnitStatus = "occupied"
)

// Valid reports whether the status is a known value.
func (s UnitStatus) Valid() bool {
	return s == StatusVacant || s == StatusOccupied
}

// Unit is a rentable space within a property. Its status mirrors whether an
// active lease references it; the lease lifecycle owns that field, not the
// unit update endpoint.
type Unit struct {
	ID            int64      `json:"id"`
	PropertyID    int64      `json:"property_id"`
	UnitNumber    string     `json:"unit_number"`
	UnitName      string     `json:"unit_name"`
	Status        UnitStatus `json:"status"`
	MonthlyRent   float64    `json:"monthly_rent"`
	DepositAmount float64    `json:"deposit_amount"`
	AdminID       int64      `json:"admin_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
