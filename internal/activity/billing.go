package activity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/core"
)

// Billing contains the scheduled status sweeps.
type Billing struct {
	svc    *core.BillingService
	logger zerolog.Logger
}

// NewBilling creates a new Billing activity struct.
func NewBilling(db core.DB, logger zerolog.Logger) *Billing {
	return &Billing{svc: core.NewBillingService(db), logger: logger}
}

// MarkInvoicesOverdue moves pending invoices past their due date to
// OVERDUE and returns how many changed.
func (a *Billing) MarkInvoicesOverdue(ctx context.Context) (int64, error) {
	return a.svc.MarkOverdue(a.logger.WithContext(ctx))
}

// ExpireDueRecords expires pending budgets past their validity and active
// subscriptions past their end date.
func (a *Billing) ExpireDueRecords(ctx context.Context) (core.SweepResult, error) {
	return a.svc.ExpireDue(a.logger.WithContext(ctx))
}
