package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceStatus is the execution state of a service inside a budget.
type ServiceStatus string

const (
	ServiceDraft        ServiceStatus = "DRAFT"
	ServicePending      ServiceStatus = "PENDING"
	ServiceScheduling   ServiceStatus = "SCHEDULING"
	ServiceScheduled    ServiceStatus = "SCHEDULED"
	ServicePreparing    ServiceStatus = "PREPARING"
	ServiceInProgress   ServiceStatus = "IN_PROGRESS"
	ServiceOnHold       ServiceStatus = "ON_HOLD"
	ServiceCompleted    ServiceStatus = "COMPLETED"
	ServicePartial      ServiceStatus = "PARTIAL"
	ServiceCancelled    ServiceStatus = "CANCELLED"
	ServiceNotPerformed ServiceStatus = "NOT_PERFORMED"
	ServiceExpired      ServiceStatus = "EXPIRED"
)

var ServiceTransitions = Transitions[ServiceStatus]{
	ServiceDraft:        {ServicePending, ServiceCancelled},
	ServicePending:      {ServiceScheduling, ServiceCancelled, ServiceExpired},
	ServiceScheduling:   {ServiceScheduled, ServiceCancelled, ServicePending},
	ServiceScheduled:    {ServicePreparing, ServiceCancelled, ServiceOnHold},
	ServicePreparing:    {ServiceInProgress, ServiceCancelled, ServiceOnHold},
	ServiceInProgress:   {ServiceCompleted, ServicePartial, ServiceOnHold, ServiceCancelled},
	ServiceOnHold:       {ServiceScheduled, ServicePreparing, ServiceInProgress, ServiceCancelled},
	ServiceCompleted:    {},
	ServicePartial:      {},
	ServiceCancelled:    {},
	ServiceNotPerformed: {},
	ServiceExpired:      {},
}

var serviceMeta = map[ServiceStatus]statusMeta{
	ServiceDraft:        {"Service is a draft", "#6C757D", "bi-pencil-square", 1},
	ServicePending:      {"Waiting to be scheduled", "#FFC107", "bi-clock", 2},
	ServiceScheduling:   {"Scheduling in progress", "#17A2B8", "bi-calendar-check", 3},
	ServiceScheduled:    {"Service scheduled", "#007BFF", "bi-calendar-plus", 4},
	ServicePreparing:    {"Preparing for execution", "#FD7E14", "bi-tools", 5},
	ServiceInProgress:   {"Service in progress", "#0D6EFD", "bi-gear", 6},
	ServiceOnHold:       {"Service on hold", "#6F42C1", "bi-pause-circle", 7},
	ServiceCompleted:    {"Service completed", "#28A745", "bi-check-circle", 8},
	ServicePartial:      {"Service partially completed", "#20C997", "bi-check-circle-fill", 9},
	ServiceCancelled:    {"Service cancelled", "#DC3545", "bi-x-circle", 10},
	ServiceNotPerformed: {"Service not performed", "#343A40", "bi-slash-circle", 11},
	ServiceExpired:      {"Service expired", "#FFA500", "bi-calendar-x", 12},
}

var ServiceStatuses = []ServiceStatus{
	ServiceDraft, ServicePending, ServiceScheduling, ServiceScheduled,
	ServicePreparing, ServiceInProgress, ServiceOnHold, ServiceCompleted,
	ServicePartial, ServiceCancelled, ServiceNotPerformed, ServiceExpired,
}

func ParseServiceStatus(s string) (ServiceStatus, error) {
	st := ServiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown service status %q", s)
	}
	return st, nil
}

func (s ServiceStatus) IsValid() bool {
	_, ok := serviceMeta[s]
	return ok
}

func (s ServiceStatus) IsFinal() bool {
	return s.IsValid() && ServiceTransitions.Terminal(s)
}

func (s ServiceStatus) IsActive() bool {
	return s.IsValid() && !s.IsFinal()
}

// IsEditable reports whether the service details may still change.
func (s ServiceStatus) IsEditable() bool {
	return s == ServiceDraft || s == ServicePending
}

// IsExecutable reports whether work can be performed in this state.
func (s ServiceStatus) IsExecutable() bool {
	return s == ServiceScheduled || s == ServiceInProgress
}

func (s ServiceStatus) CanTransitionTo(to ServiceStatus) bool {
	return ServiceTransitions.Allows(s, to)
}

func (s ServiceStatus) AllowedTransitions() []ServiceStatus {
	return ServiceTransitions.Next(s)
}

func (s ServiceStatus) Description() string { return serviceMeta[s].description }
func (s ServiceStatus) Color() string       { return serviceMeta[s].color }
func (s ServiceStatus) Icon() string        { return serviceMeta[s].icon }
func (s ServiceStatus) Priority() int       { return serviceMeta[s].priority }

func (s ServiceStatus) Info() StatusInfo {
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

func ServiceStatusCatalog() []StatusInfo {
	infos := make([]StatusInfo, 0, len(ServiceStatuses))
	for _, s := range ServiceStatuses {
		infos = append(infos, s.Info())
	}
	return sortedByPriority(infos)
}

// ServiceOrder is a unit of work priced inside a budget. It is stored in the
// services table.
type ServiceOrder struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	BudgetID    string          `json:"budget_id"`
	Code        string          `json:"code"`
	Status      ServiceStatus   `json:"status"`
	Description *string         `json:"description,omitempty"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
