package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetDraft     BudgetStatus = "DRAFT"
	BudgetPending   BudgetStatus = "PENDING"
	BudgetApproved  BudgetStatus = "APPROVED"
	BudgetRejected  BudgetStatus = "REJECTED"
	BudgetCancelled BudgetStatus = "CANCELLED"
	BudgetCompleted BudgetStatus = "COMPLETED"
	BudgetExpired   BudgetStatus = "EXPIRED"
)

// BudgetTransitions is the budget state machine. Rejected, cancelled,
// expired and completed budgets cannot be reopened.
var BudgetTransitions = Transitions[BudgetStatus]{
	BudgetDraft:     {BudgetPending, BudgetCancelled},
	BudgetPending:   {BudgetApproved, BudgetRejected, BudgetCancelled, BudgetExpired},
	BudgetApproved:  {BudgetCompleted, BudgetCancelled},
	BudgetRejected:  {},
	BudgetCancelled: {},
	BudgetCompleted: {},
	BudgetExpired:   {},
}

var budgetMeta = map[BudgetStatus]statusMeta{
	BudgetDraft:     {"Budget is a draft", "#6C757D", "edit", 2},
	BudgetPending:   {"Waiting for customer approval", "#FFC107", "clock", 1},
	BudgetApproved:  {"Budget approved", "#28A745", "check-circle", 3},
	BudgetRejected:  {"Budget rejected", "#DC3545", "times-circle", 5},
	BudgetCancelled: {"Budget cancelled", "#6C757D", "ban", 6},
	BudgetCompleted: {"Budget completed", "#007BFF", "check-double", 4},
	BudgetExpired:   {"Budget expired", "#FFA500", "calendar-times", 7},
}

// BudgetStatuses lists every budget status in declaration order.
var BudgetStatuses = []BudgetStatus{
	BudgetDraft, BudgetPending, BudgetApproved, BudgetRejected,
	BudgetCancelled, BudgetCompleted, BudgetExpired,
}

// ParseBudgetStatus accepts any casing of a known budget status.
func ParseBudgetStatus(s string) (BudgetStatus, error) {
	st := BudgetStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown budget status %q", s)
	}
	return st, nil
}

func (s BudgetStatus) IsValid() bool {
	_, ok := budgetMeta[s]
	return ok
}

// IsActive reports whether the budget still awaits a decision.
func (s BudgetStatus) IsActive() bool {
	return s == BudgetDraft || s == BudgetPending
}

// IsFinal reports whether the budget has left the active states.
func (s BudgetStatus) IsFinal() bool {
	return s.IsValid() && !s.IsActive()
}

// IsEditable reports whether the budget and its services may be modified
// or deleted.
func (s BudgetStatus) IsEditable() bool {
	return s == BudgetDraft
}

func (s BudgetStatus) CanTransitionTo(to BudgetStatus) bool {
	return BudgetTransitions.Allows(s, to)
}

func (s BudgetStatus) AllowedTransitions() []BudgetStatus {
	return BudgetTransitions.Next(s)
}

// NextStatus is the usual forward step along the happy path.
func (s BudgetStatus) NextStatus() (BudgetStatus, bool) {
	switch s {
	case BudgetDraft:
		return BudgetPending, true
	case BudgetPending:
		return BudgetApproved, true
	case BudgetApproved:
		return BudgetCompleted, true
	}
	return "", false
}

func (s BudgetStatus) Description() string { return budgetMeta[s].description }
func (s BudgetStatus) Color() string       { return budgetMeta[s].color }
func (s BudgetStatus) Icon() string        { return budgetMeta[s].icon }
func (s BudgetStatus) Priority() int       { return budgetMeta[s].priority }

func (s BudgetStatus) Info() StatusInfo {
	return StatusInfo{
		Value:       string(s),
		Description: s.Description(),
		Color:       s.Color(),
		Icon:        s.Icon(),
		Priority:    s.Priority(),
		Final:       s.IsFinal(),
		Editable:    s.IsEditable(),
		Next:        toStrings(s.AllowedTransitions()),
	}
}

// BudgetStatusCatalog returns every budget status ordered by priority.
func BudgetStatusCatalog() []StatusInfo {
	infos := make([]StatusInfo, 0, len(BudgetStatuses))
	for _, s := range BudgetStatuses {
		infos = append(infos, s.Info())
	}
	return sortedByPriority(infos)
}

// Budget is a priced proposal sent to a customer.
type Budget struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	CustomerID   string          `json:"customer_id"`
	Code         string          `json:"code"`
	Status       BudgetStatus    `json:"status"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Description  *string         `json:"description,omitempty"`
	PaymentTerms *string         `json:"payment_terms,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BudgetMetrics summarises a set of budget statuses.
type BudgetMetrics struct {
	Total              int     `json:"total"`
	Active             int     `json:"active"`
	Finished           int     `json:"finished"`
	Approved           int     `json:"approved"`
	Rejected           int     `json:"rejected"`
	Pending            int     `json:"pending"`
	ActivePercentage   float64 `json:"active_percentage"`
	FinishedPercentage float64 `json:"finished_percentage"`
	ApprovedPercentage float64 `json:"approved_percentage"`
	RejectedPercentage float64 `json:"rejected_percentage"`
	ConversionRate     float64 `json:"conversion_rate"`
}

// CalculateBudgetMetrics aggregates per-status counts.
func CalculateBudgetMetrics(counts map[BudgetStatus]int) BudgetMetrics {
	var m BudgetMetrics
	for status, n := range counts {
		m.Total += n
		if status.IsActive() {
			m.Active += n
		} else if status.IsFinal() {
			m.Finished += n
		}
		switch status {
		case BudgetApproved:
			m.Approved += n
		case BudgetRejected:
			m.Rejected += n
		case BudgetPending:
			m.Pending += n
		}
	}
	m.ActivePercentage = percentage(m.Active, m.Total)
	m.FinishedPercentage = percentage(m.Finished, m.Total)
	m.ApprovedPercentage = percentage(m.Approved, m.Total)
	m.RejectedPercentage = percentage(m.Rejected, m.Total)
	m.ConversionRate = percentage(m.Approved, m.Total)
	return m
}
