package tenants

type CreateTenantRequest struct {
	FirstName              string `json:"first_name" validate:"required,max=100"`
	LastName               string `json:"last_name" validate:"required,max=100"`
	Email                  string `json:"email" validate:"required,email"`
	Phone                  string `json:"phone" validate:"required,max=30"`
	DateOfBirth            string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContactName   string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactNumber string `json:"emergency_contact_number,omitempty" validate:"omitempty,max=30"`
	MoveInDate             string `json:"move_in_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateTenantRequest struct {
	FirstName              *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName               *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email                  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone                  *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	EmergencyContactName   *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactNumber *string `json:"emergency_contact_number,omitempty" validate:"omitempty,max=30"`
	MoveOutDate            *string `json:"move_out_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ListTenantsRequest struct {
	AdminID int64
	Search  *string
	Current bool
	Limit   int
	Offset  int
}
