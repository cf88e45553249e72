package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
)

var InvoiceTransitions = Transitions[InvoiceStatus]{
	InvoicePending:   {InvoicePaid, InvoiceCancelled, InvoiceOverdue},
	InvoiceOverdue:   {InvoicePaid, InvoiceCancelled},
	InvoicePaid:      {},
	InvoiceCancelled: {},
}

var invoiceMeta = map[InvoiceStatus]statusMeta{
	InvoicePending:   {"Waiting for payment", "#FFC107", "clock", 2},
	InvoicePaid:      {"Invoice paid", "#28A745", "check-circle", 3},
	InvoiceCancelled: {"Invoice cancelled", "#6C757D", "ban", 4},
	InvoiceOverdue:   {"Payment overdue", "#DC3545", "exclamation-triangle", 1},
}

var InvoiceStatuses = []InvoiceStatus{InvoicePending, InvoicePaid, InvoiceCancelled, InvoiceOverdue}

func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
	return st, nil
}

func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceMeta[s]
	return ok
}

func (s InvoiceStatus) IsFinal() bool {
	return s == InvoicePaid || s == InvoiceCancelled
}

// IsEditable reports whether amounts and dates may still change.
func (s InvoiceStatus) IsEditable() bool {
	return s == InvoicePending
}

func (s InvoiceStatus) CanTransitionTo(to InvoiceStatus) bool {
	return InvoiceTransitions.Allows(s, to)
}

func (s InvoiceStatus) AllowedTransitions() []InvoiceStatus {
	return InvoiceTransitions.Next(s)
}

func (s InvoiceStatus) Description() string { return invoiceMeta[s].description }
func (s InvoiceStatus) Color() string       { return invoiceMeta[s].color }
func (s InvoiceStatus) Icon() string        { return invoiceMeta[s].icon }
func (s InvoiceStatus) Priority() int       { return invoiceMeta[s].priority }

func (s InvoiceStatus) Info() StatusInfo {
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

func InvoiceStatusCatalog() []StatusInfo {
	infos := make([]StatusInfo, 0, len(InvoiceStatuses))
	for _, s := range InvoiceStatuses {
		infos = append(infos, s.Info())
	}
	return sortedByPriority(infos)
}

// Invoice bills a customer for a service.
type Invoice struct {
	ID                string           `json:"id"`
	TenantID          string           `json:"tenant_id"`
	ServiceID         string           `json:"service_id"`
	CustomerID        string           `json:"customer_id"`
	Code              string           `json:"code"`
	Status            InvoiceStatus    `json:"status"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	Discount          decimal.Decimal  `json:"discount"`
	Total             decimal.Decimal  `json:"total"`
	DueDate           *time.Time       `json:"due_date,omitempty"`
	PaymentMethod     *string          `json:"payment_method,omitempty"`
	TransactionAmount *decimal.Decimal `json:"transaction_amount,omitempty"`
	TransactionDate   *time.Time       `json:"transaction_date,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type InvoiceMetrics struct {
	Total               int     `json:"total"`
	Pending             int     `json:"pending"`
	Paid                int     `json:"paid"`
	Cancelled           int     `json:"cancelled"`
	Overdue             int     `json:"overdue"`
	PendingPercentage   float64 `json:"pending_percentage"`
	PaidPercentage      float64 `json:"paid_percentage"`
	CancelledPercentage float64 `json:"cancelled_percentage"`
	OverduePercentage   float64 `json:"overdue_percentage"`
}

func CalculateInvoiceMetrics(counts map[InvoiceStatus]int) InvoiceMetrics {
	var m InvoiceMetrics
	for status, n := range counts {
		m.Total += n
		switch status {
		case InvoicePending:
			m.Pending += n
		case InvoicePaid:
			m.Paid += n
		case InvoiceCancelled:
			m.Cancelled += n
		case InvoiceOverdue:
			m.Overdue += n
		}
	}
	m.PendingPercentage = percentage(m.Pending, m.Total)
	m.PaidPercentage = percentage(m.Paid, m.Total)
	m.CancelledPercentage = percentage(m.Cancelled, m.Total)
	m.OverduePercentage = percentage(m.Overdue, m.Total)
	return m
}
