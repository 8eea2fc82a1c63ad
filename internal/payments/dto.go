package payments

import "time"

type RecordPaymentRequest struct {
	UnitID      int64   `json:"unit_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PeriodStart string  `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string  `json:"period_end" validate:"required,datetime=2006-01-02"`
	Method      string  `json:"method" validate:"required,oneof=cash check bank_transfer card mobile_money"`
	Reference   string  `json:"reference,omitempty" validate:"omitempty,max=100"`
	Status      string  `json:"status,omitempty"`
	Notes       string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SearchPaymentsRequest struct {
	AdminID   int64
	LeaseID   int64
	UnitID    int64
	From      *time.Time
	To        *time.Time
	Method    string
	Reference string
	Status    string
	Limit     int
	Offset    int
}
