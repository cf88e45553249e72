package request

import "github.com/shopspring/decimal"

type CreateServiceOrder struct {
	BudgetID    string          `json:"budget_id" validate:"required"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	DueDate     *string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateServiceOrder struct {
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	DueDate     *string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}
