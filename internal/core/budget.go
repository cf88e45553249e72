package core

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

type BudgetService struct {
	db     DB
	events Dispatcher
}

func NewBudgetService(db DB, events Dispatcher) *BudgetService {
	return &BudgetService{db: db, events: events}
}

func (s *BudgetService) List(ctx context.Context, customerID string, params request.ListParams) Result[Page[model.Budget]] {
	const op = "budget.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.Budget]](ctx, op, err)
	}
	f := store.BudgetFilter{CustomerID: customerID, Search: params.Search}
	if params.Status != "" {
		st, err := model.ParseBudgetStatus(params.Status)
		if err != nil {
			return fail[Page[model.Budget]](ctx, op, invalid("%s", err))
		}
		f.Status = string(st)
	}
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.Budget]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Budgets.List(ctx, sc.TenantID, f, page)
	if err != nil {
		return fail[Page[model.Budget]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(b model.Budget) platform.Cursor {
		return platform.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	}), "")
}

func (s *BudgetService) Get(ctx context.Context, id string) Result[*model.Budget] {
	const op = "budget.get"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	b, err := store.New(s.db).Budgets.Get(ctx, sc.TenantID, id)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	return succeed(op, b, "")
}

// Create adds a DRAFT budget. An empty code is generated.
func (s *BudgetService) Create(ctx context.Context, in request.CreateBudget) Result[*model.Budget] {
	const op = "budget.create"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	if in.Discount.IsNegative() {
		return fail[*model.Budget](ctx, op, invalid("discount must not be negative"))
	}
	b := &model.Budget{
		ID:           platform.NewID(),
		CustomerID:   in.CustomerID,
		Code:         strings.TrimSpace(in.Code),
		Status:       model.BudgetDraft,
		DueDate:      due,
		Discount:     in.Discount,
		Total:        decimal.Zero,
		Description:  in.Description,
		PaymentTerms: in.PaymentTerms,
	}

	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		if err := checkPlanLimit(ctx, st, g, sc.TenantID, limitBudgets); err != nil {
			return err
		}
		if _, err := st.Customers.Get(ctx, sc.TenantID, in.CustomerID); err != nil {
			if isNotFound(err) {
				return invalid("customer %s does not exist", in.CustomerID)
			}
			return err
		}
		if b.Code == "" {
			b.Code = platform.NewCode(platform.BudgetCodePrefix, now())
		}
		unique, err := st.Budgets.IsUniqueInTenant(ctx, sc.TenantID, b.Code, "")
		if err != nil {
			return err
		}
		if !unique {
			return invalid("budget code %s is already in use", b.Code)
		}
		if err := st.Budgets.Insert(ctx, sc.TenantID, b); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "budget",
			EntityID:    b.ID,
			Description: "budget " + b.Code + " created",
		})
	})
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	return succeed(op, b, "budget created")
}

// Update changes a DRAFT budget and recalculates its total.
func (s *BudgetService) Update(ctx context.Context, id string, in request.UpdateBudget) Result[*model.Budget] {
	const op = "budget.update"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	if in.Discount.IsNegative() {
		return fail[*model.Budget](ctx, op, invalid("discount must not be negative"))
	}

	var b *model.Budget
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if b, err = st.Budgets.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if !b.Status.IsEditable() {
			return invalid("budget %s is %s and can no longer be edited", b.Code, b.Status)
		}
		if in.CustomerID != b.CustomerID {
			if _, err := st.Customers.Get(ctx, sc.TenantID, in.CustomerID); err != nil {
				if isNotFound(err) {
					return invalid("customer %s does not exist", in.CustomerID)
				}
				return err
			}
		}
		b.CustomerID, b.DueDate, b.Discount = in.CustomerID, due, in.Discount
		b.Description, b.PaymentTerms = in.Description, in.PaymentTerms
		if err := st.Budgets.Update(ctx, sc.TenantID, b); err != nil {
			return err
		}
		if err := st.Budgets.RecalculateTotal(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if err := recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionUpdated,
			EntityType:  "budget",
			EntityID:    b.ID,
			Description: "budget " + b.Code + " updated",
		}); err != nil {
			return err
		}
		b, err = st.Budgets.Get(ctx, sc.TenantID, id)
		return err
	})
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	return succeed(op, b, "budget updated")
}

// Delete removes a DRAFT budget with its services.
func (s *BudgetService) Delete(ctx context.Context, id string) Result[struct{}] {
	const op = "budget.delete"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		b, err := st.Budgets.Get(ctx, sc.TenantID, id)
		if err != nil {
			return err
		}
		if !b.Status.IsEditable() {
			return forbidden("budget %s is %s and cannot be deleted", b.Code, b.Status)
		}
		if err := st.Services.DeleteByBudget(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if err := st.Budgets.Delete(ctx, sc.TenantID, id); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionDeleted,
			EntityType:  "budget",
			EntityID:    id,
			Description: "budget " + b.Code + " deleted",
		})
	})
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	return succeed(op, struct{}{}, "budget deleted")
}

// ChangeStatus validates the move against the budget transition table
// before touching the row. After commit a BudgetStatusChanged event is
// published.
func (s *BudgetService) ChangeStatus(ctx context.Context, id string, in request.ChangeStatus) Result[*model.Budget] {
	const op = "budget.change_status"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}
	to, err := model.ParseBudgetStatus(in.Status)
	if err != nil {
		return fail[*model.Budget](ctx, op, invalid("%s", err))
	}

	var (
		b        *model.Budget
		from     model.BudgetStatus
		customer *model.Customer
		provider *model.Provider
	)
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if b, err = st.Budgets.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		from = b.Status
		if !from.CanTransitionTo(to) {
			return transitionError("budget", string(from), string(to), toStringSlice(from.AllowedTransitions()))
		}
		if err := st.Budgets.UpdateStatus(ctx, sc.TenantID, id, from, to); err != nil {
			return err
		}
		b.Status = to
		if err := recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionStatusChanged,
			EntityType:  "budget",
			EntityID:    id,
			Description: "budget " + b.Code + " changed from " + string(from) + " to " + string(to),
			Metadata:    map[string]string{"from": string(from), "to": string(to), "comment": in.Comment},
		}); err != nil {
			return err
		}
		if customer, err = loadCustomer(ctx, st, sc.TenantID, b.CustomerID); err != nil {
			return err
		}
		provider, err = loadProvider(ctx, st, sc.TenantID)
		return err
	})
	if err != nil {
		return fail[*model.Budget](ctx, op, err)
	}

	s.events.Dispatch(ctx, model.BudgetStatusChanged{
		TenantID:      sc.TenantID,
		BudgetID:      b.ID,
		BudgetCode:    b.Code,
		OldStatus:     from,
		NewStatus:     to,
		Total:         b.Total.StringFixed(2),
		CustomerName:  customer.Name(),
		CustomerEmail: customer.Email(),
		ProviderName:  provider.DisplayName(),
		Comment:       in.Comment,
	})
	return succeed(op, b, "budget status changed to "+string(to))
}

func (s *BudgetService) Metrics(ctx context.Context) Result[model.BudgetMetrics] {
	const op = "budget.metrics"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[model.BudgetMetrics](ctx, op, err)
	}
	counts, err := store.New(s.db).Budgets.CountByStatus(ctx, sc.TenantID)
	if err != nil {
		return fail[model.BudgetMetrics](ctx, op, err)
	}
	return succeed(op, model.CalculateBudgetMetrics(counts), "")
}

// transitionError describes a rejected status change and the allowed
// targets.
func transitionError(entity, from, to string, allowed []string) error {
	if from == to {
		return invalid("%s is already %s", entity, from)
	}
	if len(allowed) == 0 {
		return invalid("%s status %s is final and cannot change to %s", entity, from, to)
	}
	return invalid("%s cannot change from %s to %s, allowed: %s", entity, from, to, strings.Join(allowed, ", "))
}

func toStringSlice[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
