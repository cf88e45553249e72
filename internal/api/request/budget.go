package request

import "github.com/shopspring/decimal"

// CreateBudget holds the request body for creating a budget. The code is
// generated when empty.
type CreateBudget struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	Code         string          `json:"code" validate:"omitempty,max=50"`
	DueDate      *string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Discount     decimal.Decimal `json:"discount"`
	Description  *string         `json:"description" validate:"omitempty,max=2000"`
	PaymentTerms *string         `json:"payment_terms" validate:"omitempty,max=1000"`
}

type UpdateBudget struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	DueDate      *string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Discount     decimal.Decimal `json:"discount"`
	Description  *string         `json:"description" validate:"omitempty,max=2000"`
	PaymentTerms *string         `json:"payment_terms" validate:"omitempty,max=1000"`
}

// ChangeStatus requests a state machine transition on a budget, service or
// support ticket.
type ChangeStatus struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment" validate:"max=1000"`
}
