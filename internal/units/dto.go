package units

type CreateUnitRequest struct {
	PropertyID    int64   `json:"property_id" validate:"required,gt=0"`
	UnitNumber    string  `json:"unit_number" validate:"required,max=50"`
	UnitName      string  `json:"unit_name" validate:"required,max=100"`
	MonthlyRent   float64 `json:"monthly_rent" validate:"required,gt=0"`
	DepositAmount float64 `json:"deposit_amount" validate:"gte=0"`
}

// UpdateUnitRequest deliberately omits status: occupancy is governed by the
// lease lifecycle, never set directly by clients.
type UpdateUnitRequest struct {
	UnitNumber    *string  `json:"unit_number,omitempty" validate:"omitempty,max=50"`
	UnitName      *string  `json:"unit_name,omitempty" validate:"omitempty,max=100"`
	MonthlyRent   *float64 `json:"monthly_rent,omitempty" validate:"omitempty,gt=0"`
	DepositAmount *float64 `json:"deposit_amount,omitempty" validate:"omitempty,gte=0"`
}

type ListUnitsRequest struct {
	AdminID    int64
	PropertyID int64
	Status     UnitStatus
	Limit      int
	Offset     int
}
