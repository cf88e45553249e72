package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/easybudget/internal/api/handler"
	mw "github.com/edvin/easybudget/internal/api/middleware"
	"github.com/edvin/easybudget/internal/core"
)

// Pinger is a dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP server. Schema, Cache and Temporal
// are optional.
type Deps struct {
	Logger      zerolog.Logger
	Services    *core.Services
	DB          Pinger
	Schema      Pinger
	Cache       Pinger
	Temporal    temporalclient.Client
	CORSOrigins []string
}

type Server struct {
	router      chi.Router
	deps        Deps
	auditLogger *mw.AuditLogger
}

func NewServer(d Deps) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		deps:        d,
		auditLogger: mw.NewAuditLogger(d.Services.Activities, d.Logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Close flushes pending audit entries.
func (s *Server) Close() {
	s.auditLogger.Close()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.deps.Logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.deps.CORSOrigins))
}

func (s *Server) setupRoutes() {
	svc := s.deps.Services

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	auth := handler.NewAuth(svc.Auth)
	plan := handler.NewPlan(svc.Plans)
	support := handler.NewSupport(svc.Support)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", auth.Register)
		r.Post("/auth/login", auth.Login)
		r.Get("/plans", plan.ListActive)
		r.Get("/statuses", handler.StatusCatalog)
		r.Get("/statuses/{entity}", handler.StatusCatalog)
		r.With(mw.OptionalAuth(svc.Auth)).Post("/support", support.Create)

		// Tenant
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(svc.Auth))
			r.Use(s.auditLogger.Middleware)

			provider := handler.NewProvider(svc.Providers)
			r.Get("/provider", provider.Get)
			r.Put("/provider", provider.Update)

			customer := handler.NewCustomer(svc.Customers)
			r.Get("/customers", customer.List)
			r.Get("/customers/search", customer.Search)
			r.Post("/customers", customer.Create)
			r.Get("/customers/{id}", customer.Get)
			r.Put("/customers/{id}", customer.Update)
			r.Delete("/customers/{id}", customer.Delete)

			budget := handler.NewBudget(svc.Budgets)
			r.Get("/budgets", budget.List)
			r.Post("/budgets", budget.Create)
			r.Get("/budgets/metrics", budget.Metrics)
			r.Get("/budgets/{id}", budget.Get)
			r.Put("/budgets/{id}", budget.Update)
			r.Delete("/budgets/{id}", budget.Delete)
			r.Patch("/budgets/{id}/status", budget.ChangeStatus)

			serviceOrder := handler.NewServiceOrder(svc.ServiceOrders)
			r.Get("/budgets/{budgetID}/services", serviceOrder.ListByBudget)
			r.Post("/services", serviceOrder.Create)
			r.Get("/services/{id}", serviceOrder.Get)
			r.Put("/services/{id}", serviceOrder.Update)
			r.Delete("/services/{id}", serviceOrder.Delete)
			r.Patch("/services/{id}/status", serviceOrder.ChangeStatus)

			invoice := handler.NewInvoice(svc.Invoices)
			r.Get("/invoices", invoice.List)
			r.Post("/invoices", invoice.Create)
			r.Get("/invoices/metrics", invoice.Metrics)
			r.Get("/invoices/{id}", invoice.Get)
			r.Patch("/invoices/{id}/status", invoice.ChangeStatus)

			subscription := handler.NewSubscription(svc.Subscriptions)
			r.Get("/subscription", subscription.Current)
			r.Get("/subscription/history", subscription.History)
			r.Post("/subscription", subscription.Subscribe)
			r.Delete("/subscription", subscription.Cancel)

			r.Get("/support", support.List)
			r.Get("/support/{id}", support.Get)
			r.Patch("/support/{id}/status", support.ChangeStatus)

			activity := handler.NewActivity(svc.Activities)
			r.Get("/activities", activity.List)

			dashboard := handler.NewDashboard(svc.Dashboard)
			r.Get("/dashboard/stats", dashboard.Stats)

			report := handler.NewReport(svc.Reports)
			r.Get("/reports/{entity}", report.Export)
		})

		// Platform administration
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(svc.APIKeys))

			provider := handler.NewAdminProvider(svc.AdminProviders)
			r.Get("/providers", provider.List)
			r.Post("/providers", provider.Create)
			r.Get("/providers/statistics", provider.Statistics)
			r.Get("/providers/{id}", provider.Get)
			r.Put("/providers/{id}", provider.Update)
			r.Delete("/providers/{id}", provider.Delete)
			r.Patch("/providers/{id}/toggle", provider.ToggleStatus)

			tenant := handler.NewTenant(svc.Tenants)
			r.Get("/tenants", tenant.List)
			r.Get("/tenants/{id}", tenant.Get)
			r.Put("/tenants/{id}/active", tenant.SetActive)

			r.Get("/plans", plan.List)
			r.Post("/plans", plan.Create)
			r.Get("/plans/{id}", plan.Get)
			r.Put("/plans/{id}", plan.Update)

			apiKey := handler.NewAPIKey(svc.APIKeys)
			r.Get("/api-keys", apiKey.List)
			r.Post("/api-keys", apiKey.Create)
			r.Get("/api-keys/{id}", apiKey.Get)
			r.Delete("/api-keys/{id}", apiKey.Revoke)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	check := func(name string, err error) {
		if err != nil {
			checks[name] = err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("database", s.deps.DB.Ping(ctx))
	if s.deps.Schema != nil {
		check("schema", s.deps.Schema.Ping(ctx))
	}
	if s.deps.Cache != nil {
		check("cache", s.deps.Cache.Ping(ctx))
	}
	if s.deps.Temporal != nil {
		_, err := s.deps.Temporal.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
		check("temporal", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
