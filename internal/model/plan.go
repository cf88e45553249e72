package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a global subscription tier.
type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	MaxBudgets  int             `json:"max_budgets"`
	MaxClients  int             `json:"max_clients"`
	Features    json.RawMessage `json:"features,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Unlimited marks a plan limit that is not enforced.
const Unlimited = -1

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

var SubscriptionTransitions = Transitions[SubscriptionStatus]{
	SubscriptionPending:   {SubscriptionActive, SubscriptionCancelled},
	SubscriptionActive:    {SubscriptionCancelled, SubscriptionExpired},
	SubscriptionCancelled: {},
	SubscriptionExpired:   {},
}

func (s SubscriptionStatus) IsValid() bool {
	_, ok := SubscriptionTransitions[s]
	return ok
}

func (s SubscriptionStatus) IsFinal() bool {
	return s.IsValid() && SubscriptionTransitions.Terminal(s)
}

func (s SubscriptionStatus) CanTransitionTo(to SubscriptionStatus) bool {
	return SubscriptionTransitions.Allows(s, to)
}

// PlanSubscription binds a provider to a plan for a period.
type PlanSubscription struct {
	ID                string             `json:"id"`
	TenantID          string             `json:"tenant_id"`
	ProviderID        string             `json:"provider_id"`
	PlanID            string             `json:"plan_id"`
	Status            SubscriptionStatus `json:"status"`
	TransactionAmount decimal.Decimal    `json:"transaction_amount"`
	StartDate         time.Time          `json:"start_date"`
	EndDate           *time.Time         `json:"end_date,omitempty"`
	PaymentMethod     *string            `json:"payment_method,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
