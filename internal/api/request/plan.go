package request

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CreatePlan struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Slug        string          `json:"slug" validate:"required,slug"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price"`
	Active      *bool           `json:"active"`
	MaxBudgets  int             `json:"max_budgets" validate:"min=-1"`
	MaxClients  int             `json:"max_clients" validate:"min=-1"`
	Features    json.RawMessage `json:"features"`
}

type UpdatePlan struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price"`
	Active      *bool           `json:"active"`
	MaxBudgets  int             `json:"max_budgets" validate:"min=-1"`
	MaxClients  int             `json:"max_clients" validate:"min=-1"`
	Features    json.RawMessage `json:"features"`
}
