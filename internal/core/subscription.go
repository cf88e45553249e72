package core

import (
	"context"
	"errors"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// SubscriptionService binds the current tenant's provider to a plan.
type SubscriptionService struct {
	db DB
}

func NewSubscriptionService(db DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

func (s *SubscriptionService) Current(ctx context.Context) Result[*model.PlanSubscription] {
	const op = "subscription.current"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}
	sub, err := store.New(s.db).Subscriptions.Current(ctx, sc.TenantID)
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}
	return succeed(op, sub, "")
}

func (s *SubscriptionService) History(ctx context.Context, params request.ListParams) Result[Page[model.PlanSubscription]] {
	const op = "subscription.history"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.PlanSubscription]](ctx, op, err)
	}
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.PlanSubscription]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Subscriptions.History(ctx, sc.TenantID, page)
	if err != nil {
		return fail[Page[model.PlanSubscription]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(p model.PlanSubscription) platform.Cursor {
		return platform.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), "")
}

// Subscribe ends the current subscription and starts a one month
// subscription to the given plan in the same transaction.
func (s *SubscriptionService) Subscribe(ctx context.Context, in request.Subscribe) Result[*model.PlanSubscription] {
	const op = "subscription.subscribe"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}

	var sub *model.PlanSubscription
	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		plan, err := g.Plans.GetBySlug(ctx, in.Plan)
		if err != nil {
			if isNotFound(err) {
				return invalid("plan %s does not exist", in.Plan)
			}
			return err
		}
		if !plan.Active {
			return invalid("plan %s is not available", plan.Slug)
		}
		provider, err := st.Providers.Current(ctx, sc.TenantID)
		if err != nil {
			return err
		}

		at := now()
		cur, err := st.Subscriptions.Current(ctx, sc.TenantID)
		switch {
		case err == nil:
			if cur.PlanID == plan.ID && cur.Status == model.SubscriptionActive {
				return invalid("already subscribed to plan %s", plan.Slug)
			}
			if err := st.Subscriptions.UpdateStatus(ctx, sc.TenantID, cur.ID, cur.Status, model.SubscriptionCancelled, at); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		end := at.AddDate(0, 1, 0)
		sub = &model.PlanSubscription{
			ID:                platform.NewID(),
			ProviderID:        provider.ID,
			PlanID:            plan.ID,
			Status:            model.SubscriptionActive,
			TransactionAmount: plan.Price,
			StartDate:         at,
			EndDate:           &end,
			PaymentMethod:     in.PaymentMethod,
		}
		if err := st.Subscriptions.Insert(ctx, sc.TenantID, sub); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "subscription",
			EntityID:    sub.ID,
			Description: "subscribed to plan " + plan.Name,
			Metadata:    map[string]string{"plan": plan.Slug},
		})
	})
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}
	return succeed(op, sub, "subscribed to plan "+in.Plan)
}

func (s *SubscriptionService) Cancel(ctx context.Context) Result[*model.PlanSubscription] {
	const op = "subscription.cancel"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}

	var sub *model.PlanSubscription
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if sub, err = st.Subscriptions.Current(ctx, sc.TenantID); err != nil {
			if isNotFound(err) {
				return invalid("no subscription to cancel")
			}
			return err
		}
		at := now()
		if err := st.Subscriptions.UpdateStatus(ctx, sc.TenantID, sub.ID, sub.Status, model.SubscriptionCancelled, at); err != nil {
			return err
		}
		sub.Status = model.SubscriptionCancelled
		if sub.EndDate == nil {
			sub.EndDate = &at
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionStatusChanged,
			EntityType:  "subscription",
			EntityID:    sub.ID,
			Description: "subscription cancelled",
		})
	})
	if err != nil {
		return fail[*model.PlanSubscription](ctx, op, err)
	}
	return succeed(op, sub, "subscription cancelled")
}
