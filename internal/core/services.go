package core

import (
	"time"

	"github.com/edvin/easybudget/internal/cache"
	"github.com/edvin/easybudget/internal/report"
)

// Deps are the collaborators shared by all services.
type Deps struct {
	DB           DB
	Cache        cache.Store
	Events       Dispatcher
	Storage      report.Storage
	JWTSecret    string
	JWTTTL       time.Duration
	Trial        TrialPolicy
	SupportEmail string
}

// Services groups every service the HTTP layer calls.
type Services struct {
	Auth           *AuthService
	APIKeys        *APIKeyService
	Tenants        *TenantService
	Providers      *ProviderService
	AdminProviders *AdminProviderService
	Customers      *CustomerService
	Budgets        *BudgetService
	ServiceOrders  *ServiceOrderService
	Invoices       *InvoiceService
	Plans          *PlanService
	Subscriptions  *SubscriptionService
	Support        *SupportService
	Activities     *ActivityService
	Dashboard      *DashboardService
	Reports        *ReportService
}

func NewServices(d Deps) *Services {
	return &Services{
		Auth:           NewAuthService(d.DB, d.Events, d.JWTSecret, d.JWTTTL, d.Trial),
		APIKeys:        NewAPIKeyService(d.DB),
		Tenants:        NewTenantService(d.DB),
		Providers:      NewProviderService(d.DB),
		AdminProviders: NewAdminProviderService(d.DB, d.Cache, d.Trial),
		Customers:      NewCustomerService(d.DB),
		Budgets:        NewBudgetService(d.DB, d.Events),
		ServiceOrders:  NewServiceOrderService(d.DB),
		Invoices:       NewInvoiceService(d.DB, d.Events),
		Plans:          NewPlanService(d.DB, d.Cache),
		Subscriptions:  NewSubscriptionService(d.DB),
		Support:        NewSupportService(d.DB, d.Events, d.SupportEmail),
		Activities:     NewActivityService(d.DB),
		Dashboard:      NewDashboardService(d.DB),
		Reports:        NewReportService(d.DB, d.Storage),
	}
}
