package properties

import "time"

// Property is a building or site owned by an administrator; units hang off it.
type Property struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	AdminID   int64     `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
