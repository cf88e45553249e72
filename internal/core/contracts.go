package core

import (
	"context"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
)

// Capability interfaces. Each entity service implements the subset of
// operations it supports.
type (
	Findable[T any] interface {
		Get(ctx context.Context, id string) Result[T]
	}

	Creatable[In, T any] interface {
		Create(ctx context.Context, in In) Result[T]
	}

	Updatable[In, T any] interface {
		Update(ctx context.Context, id string, in In) Result[T]
	}

	Deletable interface {
		Delete(ctx context.Context, id string) Result[struct{}]
	}
)

var (
	_ Findable[*model.Customer]                                    = (*CustomerService)(nil)
	_ Creatable[request.CreateCustomer, *model.Customer]           = (*CustomerService)(nil)
	_ Updatable[request.UpdateCustomer, *model.Customer]           = (*CustomerService)(nil)
	_ Deletable                                                    = (*CustomerService)(nil)
	_ Findable[*model.Budget]                                      = (*BudgetService)(nil)
	_ Creatable[request.CreateBudget, *model.Budget]               = (*BudgetService)(nil)
	_ Updatable[request.UpdateBudget, *model.Budget]               = (*BudgetService)(nil)
	_ Deletable                                                    = (*BudgetService)(nil)
	_ Findable[*model.ServiceOrder]                                = (*ServiceOrderService)(nil)
	_ Creatable[request.CreateServiceOrder, *model.ServiceOrder]   = (*ServiceOrderService)(nil)
	_ Updatable[request.UpdateServiceOrder, *model.ServiceOrder]   = (*ServiceOrderService)(nil)
	_ Deletable                                                    = (*ServiceOrderService)(nil)
	_ Findable[*model.Invoice]                                     = (*InvoiceService)(nil)
	_ Creatable[request.CreateInvoice, *model.Invoice]             = (*InvoiceService)(nil)
	_ Findable[*model.Plan]                                        = (*PlanService)(nil)
	_ Creatable[request.CreatePlan, *model.Plan]                   = (*PlanService)(nil)
	_ Updatable[request.UpdatePlan, *model.Plan]                   = (*PlanService)(nil)
	_ Findable[*model.SupportTicket]                               = (*SupportService)(nil)
	_ Creatable[request.CreateSupportTicket, *model.SupportTicket] = (*SupportService)(nil)
	_ Findable[*model.ProviderDetails]                             = (*AdminProviderService)(nil)
	_ Creatable[request.CreateProvider, *model.Provider]           = (*AdminProviderService)(nil)
	_ Deletable                                                    = (*AdminProviderService)(nil)
	_ Findable[*model.APIKey]                                      = (*APIKeyService)(nil)
	_ Findable[*model.Tenant]                                      = (*TenantService)(nil)
)
