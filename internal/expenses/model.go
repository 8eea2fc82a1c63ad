package expenses

import "time"

// Expense is an operating cost booked against a lease.
type Expense struct {
	ID          int64     `json:"id"`
	LeaseID     int64     `json:"lease_id"`
	ExpenseDate time.Time `json:"expense_date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	PaidBy      string    `json:"paid_by"`
	AdminID     int64     `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateExpenseRequest struct {
	LeaseID     int64   `json:"lease_id" validate:"required,gt=0"`
	ExpenseDate string  `json:"expense_date" validate:"required,datetime=2006-01-02"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=500"`
	Reference   string  `json:"reference" validate:"max=100"`
	PaidBy      string  `json:"paid_by" validate:"required,oneof=owner tenant manager"`
}

type UpdateExpenseRequest struct {
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reference   *string  `json:"reference,omitempty" validate:"omitempty,max=100"`
	PaidBy      *string  `json:"paid_by,omitempty" validate:"omitempty,oneof=owner tenant manager"`
}

type ListExpensesRequest struct {
	AdminID int64
	LeaseID int64
	PaidBy  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}
