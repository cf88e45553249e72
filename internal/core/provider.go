package core

import (
	"context"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// ProviderService manages the provider that owns the current tenant.
type ProviderService struct {
	db DB
}

func NewProviderService(db DB) *ProviderService {
	return &ProviderService{db: db}
}

func (s *ProviderService) GetCurrent(ctx context.Context) Result[*model.Provider] {
	const op = "provider.get_current"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	p, err := loadProvider(ctx, store.New(s.db), sc.TenantID)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	return succeed(op, p, "")
}

// UpdateCurrent replaces the provider's party and business rows in one
// transaction.
func (s *ProviderService) UpdateCurrent(ctx context.Context, in request.UpdateProvider) Result[*model.Provider] {
	const op = "provider.update_current"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	pt, err := newParty(in.CommonData, in.Contact, in.Address)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}

	var updated *model.Provider
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		p, err := st.Providers.Current(ctx, sc.TenantID)
		if err != nil {
			return err
		}
		if err := updateProvider(ctx, st, sc.TenantID, p, pt, in.BusinessData); err != nil {
			return err
		}
		if err := recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionUpdated,
			EntityType:  "provider",
			EntityID:    p.ID,
			Description: "provider profile updated",
		}); err != nil {
			return err
		}
		updated, err = loadProvider(ctx, st, sc.TenantID)
		return err
	})
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	return succeed(op, updated, "provider updated")
}

func updateProvider(ctx context.Context, st *store.Store, tenantID string, p *model.Provider, pt *party, business *request.BusinessData) error {
	if err := pt.save(ctx, st, tenantID, p.CommonDataID, p.ContactID, p.AddressID); err != nil {
		return err
	}
	commonID, contactID, addressID := pt.ids()
	p.CommonDataID, p.ContactID = commonID, contactID
	if addressID != nil {
		p.AddressID = addressID
	}
	if err := st.Providers.Update(ctx, tenantID, p); err != nil {
		return err
	}
	bd, err := businessDataFrom(business, p.ID)
	if err != nil {
		return err
	}
	if bd != nil {
		return st.BusinessData.Upsert(ctx, tenantID, bd)
	}
	return nil
}

// loadProvider returns the tenant's provider with its sub-records.
func loadProvider(ctx context.Context, st *store.Store, tenantID string) (*model.Provider, error) {
	p, err := st.Providers.Current(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := fillProvider(ctx, st, p); err != nil {
		return nil, err
	}
	return p, nil
}

func fillProvider(ctx context.Context, st *store.Store, p *model.Provider) error {
	cd, ct, adr, err := loadParty(ctx, st, p.TenantID, p.CommonDataID, p.ContactID, p.AddressID)
	if err != nil {
		return err
	}
	p.CommonData, p.Contact, p.Address = cd, ct, adr
	bd, err := st.BusinessData.GetByProvider(ctx, p.TenantID, p.ID)
	switch {
	case err == nil:
		p.BusinessData = bd
	case !isNotFound(err):
		return err
	}
	return nil
}
