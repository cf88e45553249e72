package core

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// ServiceOrderService manages the services priced inside a budget. Every
// write recalculates the budget total.
type ServiceOrderService struct {
	db DB
}

func NewServiceOrderService(db DB) *ServiceOrderService {
	return &ServiceOrderService{db: db}
}

func (s *ServiceOrderService) ListByBudget(ctx context.Context, budgetID string) Result[[]model.ServiceOrder] {
	const op = "service.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[[]model.ServiceOrder](ctx, op, err)
	}
	st := store.New(s.db)
	if _, err := st.Budgets.Get(ctx, sc.TenantID, budgetID); err != nil {
		return fail[[]model.ServiceOrder](ctx, op, err)
	}
	items, err := st.Services.ListByBudget(ctx, sc.TenantID, budgetID)
	if err != nil {
		return fail[[]model.ServiceOrder](ctx, op, err)
	}
	if items == nil {
		items = []model.ServiceOrder{}
	}
	return succeed(op, items, "")
}

func (s *ServiceOrderService) Get(ctx context.Context, id string) Result[*model.ServiceOrder] {
	const op = "service.get"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	so, err := store.New(s.db).Services.Get(ctx, sc.TenantID, id)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	return succeed(op, so, "")
}

func (s *ServiceOrderService) Create(ctx context.Context, in request.CreateServiceOrder) Result[*model.ServiceOrder] {
	const op = "service.create"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	if err := checkAmounts(in.Total, in.Discount); err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	so := &model.ServiceOrder{
		ID:          platform.NewID(),
		BudgetID:    in.BudgetID,
		Code:        platform.NewCode(platform.ServiceCodePrefix, now()),
		Status:      model.ServiceDraft,
		Description: in.Description,
		Discount:    in.Discount,
		Total:       in.Total,
		DueDate:     due,
	}

	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		b, err := st.Budgets.Get(ctx, sc.TenantID, in.BudgetID)
		if err != nil {
			if isNotFound(err) {
				return invalid("budget %s does not exist", in.BudgetID)
			}
			return err
		}
		if !b.Status.IsEditable() {
			return invalid("budget %s is %s, services can no longer be added", b.Code, b.Status)
		}
		if err := st.Services.Insert(ctx, sc.TenantID, so); err != nil {
			return err
		}
		if err := st.Budgets.RecalculateTotal(ctx, sc.TenantID, b.ID); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "service",
			EntityID:    so.ID,
			Description: "service " + so.Code + " added to budget " + b.Code,
		})
	})
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	return succeed(op, so, "service created")
}

func (s *ServiceOrderService) Update(ctx context.Context, id string, in request.UpdateServiceOrder) Result[*model.ServiceOrder] {
	const op = "service.update"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	if err := checkAmounts(in.Total, in.Discount); err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}

	var so *model.ServiceOrder
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if so, err = st.Services.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if !so.Status.IsEditable() {
			return invalid("service %s is %s and can no longer be edited", so.Code, so.Status)
		}
		if err := requireEditableBudget(ctx, st, sc.TenantID, so, "edited"); err != nil {
			return err
		}
		so.Description, so.Discount, so.Total, so.DueDate = in.Description, in.Discount, in.Total, due
		if err := st.Services.Update(ctx, sc.TenantID, so); err != nil {
			return err
		}
		if err := st.Budgets.RecalculateTotal(ctx, sc.TenantID, so.BudgetID); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionUpdated,
			EntityType:  "service",
			EntityID:    so.ID,
			Description: "service " + so.Code + " updated",
		})
	})
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	return succeed(op, so, "service updated")
}

func (s *ServiceOrderService) Delete(ctx context.Context, id string) Result[struct{}] {
	const op = "service.delete"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		so, err := st.Services.Get(ctx, sc.TenantID, id)
		if err != nil {
			return err
		}
		if !so.Status.IsEditable() {
			return forbidden("service %s is %s and cannot be deleted", so.Code, so.Status)
		}
		if err := requireEditableBudget(ctx, st, sc.TenantID, so, "deleted"); err != nil {
			return err
		}
		invoiced, err := st.Invoices.ExistsForService(ctx, sc.TenantID, id)
		if err != nil {
			return err
		}
		if invoiced {
			return forbidden("service %s has an invoice and cannot be deleted", so.Code)
		}
		if err := st.Services.Delete(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if err := st.Budgets.RecalculateTotal(ctx, sc.TenantID, so.BudgetID); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionDeleted,
			EntityType:  "service",
			EntityID:    id,
			Description: "service " + so.Code + " deleted",
		})
	})
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	return succeed(op, struct{}{}, "service deleted")
}

// ChangeStatus validates the move against the service transition table.
// Cancelling a service drops it from the budget total.
func (s *ServiceOrderService) ChangeStatus(ctx context.Context, id string, in request.ChangeStatus) Result[*model.ServiceOrder] {
	const op = "service.change_status"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	to, err := model.ParseServiceStatus(in.Status)
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, invalid("%s", err))
	}

	var so *model.ServiceOrder
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if so, err = st.Services.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		from := so.Status
		if !from.CanTransitionTo(to) {
			return transitionError("service", string(from), string(to), toStringSlice(from.AllowedTransitions()))
		}
		if err := st.Services.UpdateStatus(ctx, sc.TenantID, id, from, to); err != nil {
			return err
		}
		so.Status = to
		if to == model.ServiceCancelled {
			if err := st.Budgets.RecalculateTotal(ctx, sc.TenantID, so.BudgetID); err != nil {
				return err
			}
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionStatusChanged,
			EntityType:  "service",
			EntityID:    id,
			Description: "service " + so.Code + " changed from " + string(from) + " to " + string(to),
			Metadata:    map[string]string{"from": string(from), "to": string(to), "comment": in.Comment},
		})
	})
	if err != nil {
		return fail[*model.ServiceOrder](ctx, op, err)
	}
	return succeed(op, so, "service status changed to "+string(to))
}

// requireEditableBudget fails with FORBIDDEN once the service's budget has
// left the editable statuses.
func requireEditableBudget(ctx context.Context, st *store.Store, tenantID string, so *model.ServiceOrder, verb string) error {
	b, err := st.Budgets.Get(ctx, tenantID, so.BudgetID)
	if err != nil {
		return err
	}
	if !b.Status.IsEditable() {
		return forbidden("budget %s is %s, service %s can no longer be %s", b.Code, b.Status, so.Code, verb)
	}
	return nil
}

func checkAmounts(total, discount decimal.Decimal) error {
	if total.IsNegative() {
		return invalid("total must not be negative")
	}
	if discount.IsNegative() {
		return invalid("discount must not be negative")
	}
	if discount.GreaterThan(total) {
		return invalid("discount must not exceed the total")
	}
	return nil
}
