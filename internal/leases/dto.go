package leases

// AssignTenantRequest creates a tenant, an optional portal account, and an
// active lease on the unit in one transaction.
type AssignTenantRequest struct {
	UnitID      int64   `json:"unit_id" validate:"required,gt=0"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,max=30"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MonthlyRent float64 `json:"monthly_rent" validate:"omitempty,gt=0"`
	DueDay      int     `json:"due_day" validate:"required,min=1,max=28"`
	Password    string  `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

type EndLeaseRequest struct {
	EndDate string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type ListLeasesRequest struct {
	AdminID  int64
	UnitID   int64
	TenantID int64
	Status   LeaseStatus
	Limit    int
	Offset   int
}
