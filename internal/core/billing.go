package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/store"
)

// SweepResult reports how many rows a billing sweep changed.
type SweepResult struct {
	ExpiredBudgets       int64 `json:"expired_budgets"`
	ExpiredSubscriptions int64 `json:"expired_subscriptions"`
}

// BillingService runs the cross-tenant status sweeps scheduled by the
// worker.
type BillingService struct {
	db DB
}

func NewBillingService(db DB) *BillingService {
	return &BillingService{db: db}
}

// MarkOverdue moves pending invoices past their due date to OVERDUE.
func (s *BillingService) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := store.NewGlobal(s.db).Billing.MarkOverdueInvoices(ctx, now())
	if err != nil {
		return 0, err
	}
	zerolog.Ctx(ctx).Info().Int64("invoices", n).Msg("marked invoices overdue")
	return n, nil
}

// ExpireDue expires pending budgets and active subscriptions whose dates
// have passed.
func (s *BillingService) ExpireDue(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	at := now()
	err := withTx(ctx, s.db, func(_ *store.Store, g *store.Global) error {
		var err error
		if res.ExpiredBudgets, err = g.Billing.ExpireBudgets(ctx, at); err != nil {
			return err
		}
		res.ExpiredSubscriptions, err = g.Billing.ExpireSubscriptions(ctx, at)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("expire due records: %w", err)
	}
	zerolog.Ctx(ctx).Info().
		Int64("budgets", res.ExpiredBudgets).
		Int64("subscriptions", res.ExpiredSubscriptions).
		Msg("expired due records")
	return res, nil
}
