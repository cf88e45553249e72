package core

import (
	"context"
	"errors"

	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/store"
)

type limitKind int

const (
	limitBudgets limitKind = iota
	limitClients
)

// checkPlanLimit fails with FORBIDDEN when the tenant has no active
// subscription or has reached the plan's limit for kind. It share-locks the
// tenant row, so it must run inside the creating transaction.
func checkPlanLimit(ctx context.Context, st *store.Store, g *store.Global, tenantID string, kind limitKind) error {
	if err := g.Tenants.Lock(ctx, tenantID, store.LockShare); err != nil {
		return err
	}
	sub, err := st.Subscriptions.Current(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return forbidden("no active subscription")
		}
		return err
	}
	if sub.Status != model.SubscriptionActive {
		return forbidden("subscription is %s", sub.Status)
	}
	plan, err := g.Plans.Get(ctx, sub.PlanID)
	if err != nil {
		return err
	}

	var (
		max   int
		count int
		noun  string
	)
	switch kind {
	case limitBudgets:
		max, noun = plan.MaxBudgets, "budgets"
		if max != model.Unlimited {
			count, err = st.Budgets.Count(ctx, tenantID)
		}
	case limitClients:
		max, noun = plan.MaxClients, "customers"
		if max != model.Unlimited {
			count, err = st.Customers.Count(ctx, tenantID)
		}
	}
	if err != nil {
		return err
	}
	if max != model.Unlimited && count >= max {
		return forbidden("plan %s allows at most %d %s", plan.Name, max, noun)
	}
	return nil
}
