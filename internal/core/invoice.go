package core

import (
	"context"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

type InvoiceService struct {
	db     DB
	events Dispatcher
}

func NewInvoiceService(db DB, events Dispatcher) *InvoiceService {
	return &InvoiceService{db: db, events: events}
}

func (s *InvoiceService) List(ctx context.Context, customerID string, params request.ListParams) Result[Page[model.Invoice]] {
	const op = "invoice.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.Invoice]](ctx, op, err)
	}
	f := store.InvoiceFilter{CustomerID: customerID, Search: params.Search}
	if params.Status != "" {
		st, err := model.ParseInvoiceStatus(params.Status)
		if err != nil {
			return fail[Page[model.Invoice]](ctx, op, invalid("%s", err))
		}
		f.Status = string(st)
	}
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.Invoice]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Invoices.List(ctx, sc.TenantID, f, page)
	if err != nil {
		return fail[Page[model.Invoice]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(i model.Invoice) platform.Cursor {
		return platform.Cursor{CreatedAt: i.CreatedAt, ID: i.ID}
	}), "")
}

func (s *InvoiceService) Get(ctx context.Context, id string) Result[*model.Invoice] {
	const op = "invoice.get"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}
	inv, err := store.New(s.db).Invoices.Get(ctx, sc.TenantID, id)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}
	return succeed(op, inv, "")
}

// Create bills a service of an approved or completed budget. Amounts are
// copied from the service. A service has at most one open invoice.
func (s *InvoiceService) Create(ctx context.Context, in request.CreateInvoice) Result[*model.Invoice] {
	const op = "invoice.create"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}

	var (
		inv      *model.Invoice
		customer *model.Customer
	)
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		so, err := st.Services.Get(ctx, sc.TenantID, in.ServiceID)
		if err != nil {
			if isNotFound(err) {
				return invalid("service %s does not exist", in.ServiceID)
			}
			return err
		}
		switch so.Status {
		case model.ServiceCancelled, model.ServiceNotPerformed, model.ServiceExpired, model.ServiceDraft:
			return invalid("service %s is %s and cannot be invoiced", so.Code, so.Status)
		}
		b, err := st.Budgets.Get(ctx, sc.TenantID, so.BudgetID)
		if err != nil {
			return err
		}
		if b.Status != model.BudgetApproved && b.Status != model.BudgetCompleted {
			return invalid("budget %s is %s, only approved budgets can be invoiced", b.Code, b.Status)
		}
		exists, err := st.Invoices.ExistsForService(ctx, sc.TenantID, so.ID)
		if err != nil {
			return err
		}
		if exists {
			return invalid("service %s already has an open invoice", so.Code)
		}

		discount := so.Discount
		if in.Discount != nil {
			discount = *in.Discount
		}
		if err := checkAmounts(so.Total, discount); err != nil {
			return err
		}
		inv = &model.Invoice{
			ID:         platform.NewID(),
			ServiceID:  so.ID,
			CustomerID: b.CustomerID,
			Code:       platform.NewCode(platform.InvoiceCodePrefix, now()),
			Status:     model.InvoicePending,
			Subtotal:   so.Total,
			Discount:   discount,
			Total:      so.Total.Sub(discount),
			DueDate:    due,
			Notes:      in.Notes,
		}
		if err := st.Invoices.Insert(ctx, sc.TenantID, inv); err != nil {
			return err
		}
		if customer, err = loadCustomer(ctx, st, sc.TenantID, b.CustomerID); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "invoice",
			EntityID:    inv.ID,
			Description: "invoice " + inv.Code + " created for service " + so.Code,
		})
	})
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}

	s.events.Dispatch(ctx, model.InvoiceCreated{
		TenantID:      sc.TenantID,
		InvoiceID:     inv.ID,
		InvoiceCode:   inv.Code,
		Total:         inv.Total.StringFixed(2),
		DueDate:       formatDate(inv.DueDate),
		CustomerName:  customer.Name(),
		CustomerEmail: customer.Email(),
	})
	return succeed(op, inv, "invoice created")
}

// ChangeStatus validates the move against the invoice transition table.
// Paying records the payment method, amount and date; amount and date
// default to the invoice total and today.
func (s *InvoiceService) ChangeStatus(ctx context.Context, id string, in request.ChangeInvoiceStatus) Result[*model.Invoice] {
	const op = "invoice.change_status"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}
	to, err := model.ParseInvoiceStatus(in.Status)
	if err != nil {
		return fail[*model.Invoice](ctx, op, invalid("%s", err))
	}
	paidAt, err := parseDate(in.TransactionDate)
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}

	var inv *model.Invoice
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if inv, err = st.Invoices.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		from := inv.Status
		if !from.CanTransitionTo(to) {
			return transitionError("invoice", string(from), string(to), toStringSlice(from.AllowedTransitions()))
		}

		var payment *store.Payment
		if to == model.InvoicePaid {
			if in.PaymentMethod == nil || *in.PaymentMethod == "" {
				return invalid("payment_method is required to pay an invoice")
			}
			payment = &store.Payment{Method: *in.PaymentMethod, Amount: inv.Total, Date: now()}
			if in.TransactionAmount != nil {
				if !in.TransactionAmount.IsPositive() {
					return invalid("transaction_amount must be positive")
				}
				payment.Amount = *in.TransactionAmount
			}
			if paidAt != nil {
				payment.Date = *paidAt
			}
		}
		if err := st.Invoices.UpdateStatus(ctx, sc.TenantID, id, from, to, payment); err != nil {
			return err
		}
		inv.Status = to
		if payment != nil {
			inv.PaymentMethod, inv.TransactionAmount, inv.TransactionDate = &payment.Method, &payment.Amount, &payment.Date
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionStatusChanged,
			EntityType:  "invoice",
			EntityID:    id,
			Description: "invoice " + inv.Code + " changed from " + string(from) + " to " + string(to),
			Metadata:    map[string]string{"from": string(from), "to": string(to)},
		})
	})
	if err != nil {
		return fail[*model.Invoice](ctx, op, err)
	}
	return succeed(op, inv, "invoice status changed to "+string(to))
}

func (s *InvoiceService) Metrics(ctx context.Context) Result[model.InvoiceMetrics] {
	const op = "invoice.metrics"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[model.InvoiceMetrics](ctx, op, err)
	}
	counts, err := store.New(s.db).Invoices.CountByStatus(ctx, sc.TenantID)
	if err != nil {
		return fail[model.InvoiceMetrics](ctx, op, err)
	}
	return succeed(op, model.CalculateInvoiceMetrics(counts), "")
}
