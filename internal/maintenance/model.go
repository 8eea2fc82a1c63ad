package maintenance

import "time"

// RequestStatus tracks a maintenance ticket through its life.
type RequestStatus string

const (
	StatusOpen       RequestStatus = "open"
	StatusInProgress RequestStatus = "in_progress"
	StatusResolved   RequestStatus = "resolved"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Request is a maintenance ticket raised against a lease.
type Request struct {
	ID          int64         `json:"id"`
	LeaseID     int64         `json:"lease_id"`
	RequestDate time.Time     `json:"request_date"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	Status      RequestStatus `json:"status"`
	Cost        *float64      `json:"cost,omitempty"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	AdminID     int64         `json:"admin_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateRequest struct {
	LeaseID     int64  `json:"lease_id" validate:"required,gt=0"`
	RequestDate string `json:"request_date" validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=2000"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

type UpdateStatusRequest struct {
	Status RequestStatus `json:"status" validate:"required"`
	Cost   *float64      `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

type ListRequest struct {
	AdminID  int64
	LeaseID  int64
	Status   RequestStatus
	Priority string
	Limit    int
	Offset   int
}
