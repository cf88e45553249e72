package model

// EventType names a domain event that triggers a notification.
type EventType string

const (
	EventUserRegistered       EventType = "user.registered"
	EventBudgetStatusChanged  EventType = "budget.status_changed"
	EventSupportTicketCreated EventType = "support.ticket_created"
	EventInvoiceCreated       EventType = "invoice.created"
)

// Notification templates.
const (
	TemplateWelcome       = "welcome"
	TemplateBudgetStatus  = "budget_status"
	TemplateSupportTicket = "support_ticket"
	TemplateInvoice       = "invoice_created"
)

// Event is a domain fact published after its transaction commits.
type Event interface {
	Type() EventType
	// IdempotencyKey is stable for the same fact so that duplicate
	// deliveries can be detected downstream.
	IdempotencyKey() string
	Notification() Notification
}

// Notification is the serialisable mail request derived from an event.
type Notification struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Event          EventType         `json:"event"`
	TenantID       string            `json:"tenant_id"`
	Recipient      string            `json:"recipient"`
	RecipientName  string            `json:"recipient_name,omitempty"`
	Template       string            `json:"template"`
	Data           map[string]string `json:"data,omitempty"`
}

type UserRegistered struct {
	TenantID string
	UserID   string
	Email    string
	Name     string
	Company  string
}

func (e UserRegistered) Type() EventType        { return EventUserRegistered }
func (e UserRegistered) IdempotencyKey() string { return "user-registered-" + e.UserID }

func (e UserRegistered) Notification() Notification {
	return Notification{
		IdempotencyKey: e.IdempotencyKey(),
		Event:          e.Type(),
		TenantID:       e.TenantID,
		Recipient:      e.Email,
		RecipientName:  e.Name,
		Template:       TemplateWelcome,
		Data: map[string]string{
			"name":    e.Name,
			"company": e.Company,
		},
	}
}

type BudgetStatusChanged struct {
	TenantID      string
	BudgetID      string
	BudgetCode    string
	OldStatus     BudgetStatus
	NewStatus     BudgetStatus
	Total         string
	CustomerName  string
	CustomerEmail string
	ProviderName  string
	Comment       string
}

func (e BudgetStatusChanged) Type() EventType { return EventBudgetStatusChanged }

func (e BudgetStatusChanged) IdempotencyKey() string {
	return "budget-status-" + e.BudgetID + "-" + string(e.OldStatus) + "-" + string(e.NewStatus)
}

func (e BudgetStatusChanged) Notification() Notification {
	return Notification{
		IdempotencyKey: e.IdempotencyKey(),
		Event:          e.Type(),
		TenantID:       e.TenantID,
		Recipient:      e.CustomerEmail,
		RecipientName:  e.CustomerName,
		Template:       TemplateBudgetStatus,
		Data: map[string]string{
			"code":               e.BudgetCode,
			"old_status":         string(e.OldStatus),
			"new_status":         string(e.NewStatus),
			"status_description": e.NewStatus.Description(),
			"total":              e.Total,
			"customer_name":      e.CustomerName,
			"provider_name":      e.ProviderName,
			"comment":            e.Comment,
		},
	}
}

type SupportTicketCreated struct {
	TenantID     string
	TicketID     string
	Name         string
	Email        string
	Subject      string
	Message      string
	SupportEmail string
}

func (e SupportTicketCreated) Type() EventType        { return EventSupportTicketCreated }
func (e SupportTicketCreated) IdempotencyKey() string { return "support-ticket-" + e.TicketID }

func (e SupportTicketCreated) Notification() Notification {
	return Notification{
		IdempotencyKey: e.IdempotencyKey(),
		Event:          e.Type(),
		TenantID:       e.TenantID,
		Recipient:      e.SupportEmail,
		RecipientName:  "Support",
		Template:       TemplateSupportTicket,
		Data: map[string]string{
			"ticket_id": e.TicketID,
			"name":      e.Name,
			"email":     e.Email,
			"subject":   e.Subject,
			"message":   e.Message,
		},
	}
}

type InvoiceCreated struct {
	TenantID      string
	InvoiceID     string
	InvoiceCode   string
	Total         string
	DueDate       string
	CustomerName  string
	CustomerEmail string
}

func (e InvoiceCreated) Type() EventType        { return EventInvoiceCreated }
func (e InvoiceCreated) IdempotencyKey() string { return "invoice-created-" + e.InvoiceID }

func (e InvoiceCreated) Notification() Notification {
	return Notification{
		IdempotencyKey: e.IdempotencyKey(),
		Event:          e.Type(),
		TenantID:       e.TenantID,
		Recipient:      e.CustomerEmail,
		RecipientName:  e.CustomerName,
		Template:       TemplateInvoice,
		Data: map[string]string{
			"code":          e.InvoiceCode,
			"total":         e.Total,
			"due_date":      e.DueDate,
			"customer_name": e.CustomerName,
		},
	}
}
