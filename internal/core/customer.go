package core

import (
	"context"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

type CustomerService struct {
	db DB
}

func NewCustomerService(db DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) List(ctx context.Context, f request.CustomerFilter) Result[Page[model.Customer]] {
	const op = "customer.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.Customer]](ctx, op, err)
	}
	page, err := f.ListParams.Page()
	if err != nil {
		return fail[Page[model.Customer]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Customers.List(ctx, sc.TenantID, f.ToFilterMap(), page)
	if err != nil {
		return fail[Page[model.Customer]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(c model.Customer) platform.Cursor {
		return platform.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	}), "")
}

// Search returns up to limit active customers for autocomplete.
func (s *CustomerService) Search(ctx context.Context, term string, limit int) Result[[]model.Customer] {
	const op = "customer.search"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[[]model.Customer](ctx, op, err)
	}
	if len(term) < 2 {
		return fail[[]model.Customer](ctx, op, invalid("search term must have at least 2 characters"))
	}
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	items, err := store.New(s.db).Customers.Search(ctx, sc.TenantID, term, limit)
	if err != nil {
		return fail[[]model.Customer](ctx, op, err)
	}
	if items == nil {
		items = []model.Customer{}
	}
	return succeed(op, items, "")
}

func (s *CustomerService) Get(ctx context.Context, id string) Result[*model.Customer] {
	const op = "customer.get"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	c, err := loadCustomer(ctx, store.New(s.db), sc.TenantID, id)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	return succeed(op, c, "")
}

func loadCustomer(ctx context.Context, st *store.Store, tenantID, id string) (*model.Customer, error) {
	c, err := st.Customers.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	c.CommonData, c.Contact, c.Address, err = loadParty(ctx, st, tenantID, c.CommonDataID, c.ContactID, c.AddressID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create writes the customer and its party rows in one transaction after
// checking document and email uniqueness and the plan's customer limit.
func (s *CustomerService) Create(ctx context.Context, in request.CreateCustomer) Result[*model.Customer] {
	const op = "customer.create"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	pt, err := newParty(in.CommonData, in.Contact, in.Address)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	c := &model.Customer{ID: platform.NewID(), Status: in.Status}
	if c.Status == "" {
		c.Status = model.StatusActive
	}

	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		if err := checkPlanLimit(ctx, st, g, sc.TenantID, limitClients); err != nil {
			return err
		}
		if err := checkCustomerUnique(ctx, st, sc.TenantID, pt, ""); err != nil {
			return err
		}
		if err := pt.insert(ctx, st, sc.TenantID); err != nil {
			return err
		}
		c.CommonDataID, c.ContactID, c.AddressID = pt.ids()
		if err := st.Customers.Insert(ctx, sc.TenantID, c); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "customer",
			EntityID:    c.ID,
			Description: "customer " + pt.common.FullName() + " created",
		})
	})
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	c.CommonData, c.Contact, c.Address = pt.common, pt.contact, pt.address
	return succeed(op, c, "customer created")
}

func (s *CustomerService) Update(ctx context.Context, id string, in request.UpdateCustomer) Result[*model.Customer] {
	const op = "customer.update"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	pt, err := newParty(in.CommonData, in.Contact, in.Address)
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}

	var c *model.Customer
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if c, err = st.Customers.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if err := checkCustomerUnique(ctx, st, sc.TenantID, pt, id); err != nil {
			return err
		}
		if err := pt.save(ctx, st, sc.TenantID, c.CommonDataID, c.ContactID, c.AddressID); err != nil {
			return err
		}
		commonID, contactID, addressID := pt.ids()
		c.CommonDataID, c.ContactID = commonID, contactID
		if addressID != nil {
			c.AddressID = addressID
		}
		if in.Status != "" {
			c.Status = in.Status
		}
		if err := st.Customers.Update(ctx, sc.TenantID, c); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionUpdated,
			EntityType:  "customer",
			EntityID:    c.ID,
			Description: "customer " + pt.common.FullName() + " updated",
		})
	})
	if err != nil {
		return fail[*model.Customer](ctx, op, err)
	}
	c.CommonData, c.Contact = pt.common, pt.contact
	if pt.address != nil {
		c.Address = pt.address
	}
	return succeed(op, c, "customer updated")
}

// Delete removes a customer that no budget or invoice references.
func (s *CustomerService) Delete(ctx context.Context, id string) Result[struct{}] {
	const op = "customer.delete"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		c, err := st.Customers.Get(ctx, sc.TenantID, id)
		if err != nil {
			return err
		}
		budgets, invoices, err := st.Customers.Dependents(ctx, sc.TenantID, id)
		if err != nil {
			return err
		}
		if budgets > 0 {
			return forbidden("customer has %d budgets and cannot be deleted", budgets)
		}
		if invoices > 0 {
			return forbidden("customer has %d invoices and cannot be deleted", invoices)
		}
		if err := st.Customers.Delete(ctx, sc.TenantID, id); err != nil {
			return err
		}
		if err := removeParty(ctx, st, sc.TenantID, c.CommonDataID, c.ContactID, c.AddressID); err != nil {
			return err
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionDeleted,
			EntityType:  "customer",
			EntityID:    id,
			Description: "customer deleted",
		})
	})
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	return succeed(op, struct{}{}, "customer deleted")
}

// checkCustomerUnique rejects an email, CPF or CNPJ already used by another
// customer of the tenant.
func checkCustomerUnique(ctx context.Context, st *store.Store, tenantID string, pt *party, excludeID string) error {
	checks := []struct {
		field string
		value *string
	}{
		{"email", &pt.contact.Email},
		{"cpf", pt.common.CPF},
		{"cnpj", pt.common.CNPJ},
	}
	for _, c := range checks {
		if c.value == nil || *c.value == "" {
			continue
		}
		unique, err := st.Customers.IsUniqueInTenant(ctx, tenantID, c.field, *c.value, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return invalid("%s %s is already used by another customer", c.field, *c.value)
		}
	}
	return nil
}
