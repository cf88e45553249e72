package core

import (
	"context"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

// TenantService is the platform operator's view of tenants.
type TenantService struct {
	db DB
}

func NewTenantService(db DB) *TenantService {
	return &TenantService{db: db}
}

func (s *TenantService) List(ctx context.Context, params request.ListParams) Result[Page[model.Tenant]] {
	const op = "tenant.list"
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.Tenant]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.NewGlobal(s.db).Tenants.List(ctx, params.Search, page)
	if err != nil {
		return fail[Page[model.Tenant]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(t model.Tenant) platform.Cursor {
		return platform.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	}), "")
}

func (s *TenantService) Get(ctx context.Context, id string) Result[*model.Tenant] {
	const op = "tenant.get"
	t, err := store.NewGlobal(s.db).Tenants.Get(ctx, id)
	if err != nil {
		return fail[*model.Tenant](ctx, op, err)
	}
	return succeed(op, t, "")
}

// SetActive suspends or reactivates a tenant. Inactive tenants cannot log in.
func (s *TenantService) SetActive(ctx context.Context, id string, in request.SetTenantActive) Result[*model.Tenant] {
	const op = "tenant.set_active"
	var t *model.Tenant
	err := withTx(ctx, s.db, func(_ *store.Store, g *store.Global) error {
		if err := g.Tenants.SetActive(ctx, id, *in.Active); err != nil {
			return err
		}
		var err error
		t, err = g.Tenants.Get(ctx, id)
		return err
	})
	if err != nil {
		return fail[*model.Tenant](ctx, op, err)
	}
	msg := "tenant deactivated"
	if t.IsActive {
		msg = "tenant activated"
	}
	return succeed(op, t, msg)
}
