package tenants

import "time"

// Tenant is a person renting (or having rented) a unit. MoveOutDate stays nil
// while the tenant is current.
type Tenant struct {
	ID                     int64      `json:"id"`
	FirstName              string     `json:"first_name"`
	LastName               string     `json:"last_name"`
	Email                  string     `json:"email"`
	Phone                  string     `json:"phone"`
	DateOfBirth            *time.Time `json:"date_of_birth,omitempty"`
	EmergencyContactName   string     `json:"emergency_contact_name,omitempty"`
	EmergencyContactNumber string     `json:"emergency_contact_number,omitempty"`
	MoveInDate             *time.Time `json:"move_in_date,omitempty"`
	MoveOutDate            *time.Time `json:"move_out_date,omitempty"`
	AdminID                int64      `json:"admin_id"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// FullName joins first and last name for display and audit entries.
func (t Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}
