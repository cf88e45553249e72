package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// DashboardStats summarises the tenant's pipeline.
type DashboardStats struct {
	Budgets           model.BudgetMetrics         `json:"budgets"`
	Invoices          model.InvoiceMetrics        `json:"invoices"`
	Services          map[model.ServiceStatus]int `json:"services"`
	Customers         int                         `json:"customers"`
	ActiveCustomers   int                         `json:"active_customers"`
	InactiveCustomers int                         `json:"inactive_customers"`
	RevenueThisMonth  string                      `json:"revenue_this_month"`
}

type DashboardService struct {
	db DB
}

func NewDashboardService(db DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Stats(ctx context.Context) Result[*DashboardStats] {
	const op = "dashboard.stats"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*DashboardStats](ctx, op, err)
	}
	st := store.New(s.db)
	out := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := st.Budgets.CountByStatus(gctx, sc.TenantID)
		if err != nil {
			return err
		}
		out.Budgets = model.CalculateBudgetMetrics(counts)
		return nil
	})
	g.Go(func() error {
		counts, err := st.Invoices.CountByStatus(gctx, sc.TenantID)
		if err != nil {
			return err
		}
		out.Invoices = model.CalculateInvoiceMetrics(counts)
		return nil
	})
	g.Go(func() error {
		counts, err := st.Services.CountByStatus(gctx, sc.TenantID)
		if err != nil {
			return err
		}
		out.Services = counts
		return nil
	})
	g.Go(func() error {
		counts, err := st.Customers.CountByStatus(gctx, sc.TenantID)
		if err != nil {
			return err
		}
		for status, n := range counts {
			out.Customers += n
			switch status {
			case model.StatusActive:
				out.ActiveCustomers = n
			case model.StatusInactive:
				out.InactiveCustomers = n
			}
		}
		return nil
	})
	g.Go(func() error {
		t := now()
		revenue, err := st.Invoices.PaidRevenue(gctx, sc.TenantID, time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return err
		}
		out.RevenueThisMonth = revenue.StringFixed(2)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fail[*DashboardStats](ctx, op, err)
	}
	return succeed(op, out, "")
}
