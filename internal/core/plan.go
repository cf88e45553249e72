package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/cache"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

const (
	planListKey    = "plans.active"
	planListAllKey = "plans.all"
	planCacheTTL   = time.Hour
)

// PlanService manages the global plan catalog.
type PlanService struct {
	db    DB
	cache cache.Store
}

func NewPlanService(db DB, c cache.Store) *PlanService {
	return &PlanService{db: db, cache: c}
}

func (s *PlanService) List(ctx context.Context, activeOnly bool) Result[[]model.Plan] {
	const op = "plan.list"
	key := planListAllKey
	if activeOnly {
		key = planListKey
	}
	plans, err := cache.Remember(ctx, s.cache, key, planCacheTTL, func(ctx context.Context) ([]model.Plan, error) {
		plans, err := store.NewGlobal(s.db).Plans.List(ctx, activeOnly)
		if plans == nil {
			plans = []model.Plan{}
		}
		return plans, err
	})
	if err != nil {
		return fail[[]model.Plan](ctx, op, err)
	}
	return succeed(op, plans, "")
}

func (s *PlanService) Get(ctx context.Context, id string) Result[*model.Plan] {
	const op = "plan.get"
	p, err := store.NewGlobal(s.db).Plans.Get(ctx, id)
	if err != nil {
		return fail[*model.Plan](ctx, op, err)
	}
	return succeed(op, p, "")
}

func (s *PlanService) Create(ctx context.Context, in request.CreatePlan) Result[*model.Plan] {
	const op = "plan.create"
	if in.Price.IsNegative() {
		return fail[*model.Plan](ctx, op, invalid("price cannot be negative"))
	}
	p := &model.Plan{
		ID:          platform.NewID(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Active:      in.Active == nil || *in.Active,
		MaxBudgets:  in.MaxBudgets,
		MaxClients:  in.MaxClients,
		Features:    in.Features,
	}
	if err := store.NewGlobal(s.db).Plans.Insert(ctx, p); err != nil {
		return fail[*model.Plan](ctx, op, err)
	}
	s.invalidate(ctx)
	return succeed(op, p, "plan created")
}

func (s *PlanService) Update(ctx context.Context, id string, in request.UpdatePlan) Result[*model.Plan] {
	const op = "plan.update"
	if in.Price.IsNegative() {
		return fail[*model.Plan](ctx, op, invalid("price cannot be negative"))
	}
	g := store.NewGlobal(s.db)
	p, err := g.Plans.Get(ctx, id)
	if err != nil {
		return fail[*model.Plan](ctx, op, err)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.MaxBudgets = in.MaxBudgets
	p.MaxClients = in.MaxClients
	if in.Features != nil {
		p.Features = in.Features
	}
	if err := g.Plans.Update(ctx, p); err != nil {
		return fail[*model.Plan](ctx, op, err)
	}
	s.invalidate(ctx)
	return succeed(op, p, "plan updated")
}

func (s *PlanService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, planListKey, planListAllKey); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate plan cache")
	}
}
