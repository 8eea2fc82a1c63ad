package properties

type CreatePropertyRequest struct {
	Address string `json:"address" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
}

// UpdatePropertyRequest carries the allow-listed mutable fields. Anything a
// client sends outside these is ignored by construction.
type UpdatePropertyRequest struct {
	Address *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode *string `json:"zip_code,omitempty" validate:"omitempty,max=20"`
}

type ListPropertiesRequest struct {
	AdminID int64
	Search  *string
	Limit   int
	Offset  int
}
