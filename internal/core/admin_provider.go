package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/cache"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// Cache keys owned by the admin provider service.
const (
	ProviderStatsKey     = "admin.providers.statistics"
	ProviderKeyPattern   = "providers.*"
	providerCacheTTL     = 300 * time.Second
	providerDetailPrefix = "providers."
)

// AdminProviderService is the platform operator's view over every tenant's
// provider.
type AdminProviderService struct {
	db    DB
	cache cache.Store
	trial TrialPolicy
}

func NewAdminProviderService(db DB, c cache.Store, trial TrialPolicy) *AdminProviderService {
	return &AdminProviderService{db: db, cache: c, trial: trial}
}

func (s *AdminProviderService) List(ctx context.Context, f store.ProviderFilter, params request.ListParams) Result[Page[store.ProviderSummary]] {
	const op = "admin_provider.list"
	page, err := params.Page()
	if err != nil {
		return fail[Page[store.ProviderSummary]](ctx, op, invalid("invalid cursor"))
	}
	if f.Search == "" {
		f.Search = params.Search
	}
	items, more, err := store.NewGlobal(s.db).Providers.List(ctx, f, page)
	if err != nil {
		return fail[Page[store.ProviderSummary]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(p store.ProviderSummary) platform.Cursor {
		return platform.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), "")
}

// Get returns the provider with dependent counts, paid revenue and current
// subscription. The result is cached per provider.
func (s *AdminProviderService) Get(ctx context.Context, id string) Result[*model.ProviderDetails] {
	const op = "admin_provider.get"
	d, err := cache.Remember(ctx, s.cache, providerDetailPrefix+id, providerCacheTTL, func(ctx context.Context) (*model.ProviderDetails, error) {
		return s.details(ctx, id)
	})
	if err != nil {
		return fail[*model.ProviderDetails](ctx, op, err)
	}
	return succeed(op, d, "")
}

func (s *AdminProviderService) details(ctx context.Context, id string) (*model.ProviderDetails, error) {
	p, err := store.NewGlobal(s.db).Providers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := store.New(s.db)
	d := &model.ProviderDetails{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fillProvider(gctx, st, p)
	})
	g.Go(func() error {
		deps, err := st.Providers.Dependents(gctx, p.TenantID)
		d.Dependents = deps
		return err
	})
	g.Go(func() error {
		rev, err := st.Invoices.PaidRevenue(gctx, p.TenantID, time.Time{})
		d.Revenue = rev.StringFixed(2)
		return err
	})
	g.Go(func() error {
		sub, err := st.Subscriptions.Current(gctx, p.TenantID)
		if isNotFound(err) {
			return nil
		}
		d.Subscription = sub
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.Provider = *p
	return d, nil
}

// Statistics returns platform-wide provider counts, cached for five
// minutes.
func (s *AdminProviderService) Statistics(ctx context.Context) Result[model.ProviderStatistics] {
	const op = "admin_provider.statistics"
	stats, err := cache.Remember(ctx, s.cache, ProviderStatsKey, providerCacheTTL, func(ctx context.Context) (model.ProviderStatistics, error) {
		t := now()
		monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return store.NewGlobal(s.db).Providers.Statistics(ctx, monthStart)
	})
	if err != nil {
		return fail[model.ProviderStatistics](ctx, op, err)
	}
	return succeed(op, stats, "")
}

// Create onboards a provider with its own tenant, owner account and trial
// subscription.
func (s *AdminProviderService) Create(ctx context.Context, in request.CreateProvider) Result[*model.Provider] {
	const op = "admin_provider.create"
	taken, err := store.NewGlobal(s.db).Accounts.EmailTaken(ctx, in.Email)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	if taken {
		return fail[*model.Provider](ctx, op, invalid("email %s is already registered", in.Email))
	}
	pt, err := newParty(in.CommonData, in.Contact, in.Address)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	acct := &account{email: in.Email, password: in.Password, party: pt, business: in.BusinessData, terms: true}

	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		if err := acct.open(ctx, st, g, s.trial, now()); err != nil {
			return err
		}
		return recordActivity(ctx, st, tenancy.Scope{TenantID: acct.tenant.ID}, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "provider",
			EntityID:    acct.provider.ID,
			Description: "provider created by platform admin",
		})
	})
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	s.invalidate(ctx)

	p := acct.provider
	p.CommonData, p.Contact, p.Address = pt.common, pt.contact, pt.address
	return succeed(op, p, "provider created")
}

// Update replaces a provider's party and business rows.
func (s *AdminProviderService) Update(ctx context.Context, id string, in request.UpdateProvider) Result[*model.Provider] {
	const op = "admin_provider.update"
	pt, err := newParty(in.CommonData, in.Contact, in.Address)
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	var p *model.Provider
	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		var err error
		if p, err = g.Providers.Get(ctx, id); err != nil {
			return err
		}
		if err := updateProvider(ctx, st, p.TenantID, p, pt, in.BusinessData); err != nil {
			return err
		}
		return recordActivity(ctx, st, tenancy.Scope{TenantID: p.TenantID}, ActivityEntry{
			Action:      model.ActionUpdated,
			EntityType:  "provider",
			EntityID:    p.ID,
			Description: "provider updated by platform admin",
		})
	})
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	s.invalidate(ctx)
	p.CommonData, p.Contact = pt.common, pt.contact
	if pt.address != nil {
		p.Address = pt.address
	}
	return succeed(op, p, "provider updated")
}

// ToggleStatus flips is_active and nothing else, then drops cached
// statistics and provider entries.
func (s *AdminProviderService) ToggleStatus(ctx context.Context, id string) Result[*model.Provider] {
	const op = "admin_provider.toggle_status"
	var p *model.Provider
	err := withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		var err error
		if p, err = g.Providers.Get(ctx, id); err != nil {
			return err
		}
		active, err := g.Providers.ToggleActive(ctx, id)
		if err != nil {
			return err
		}
		p.IsActive = active
		state := model.StatusInactive
		if active {
			state = model.StatusActive
		}
		return recordActivity(ctx, st, tenancy.Scope{TenantID: p.TenantID}, ActivityEntry{
			Action:      model.ActionToggled,
			EntityType:  "provider",
			EntityID:    id,
			Description: "provider marked " + state,
			Metadata:    map[string]bool{"is_active": active},
		})
	})
	if err != nil {
		return fail[*model.Provider](ctx, op, err)
	}
	s.invalidate(ctx)

	msg := "provider deactivated"
	if p.IsActive {
		msg = "provider activated"
	}
	return succeed(op, p, msg)
}

// Delete removes a provider that has no business records. The tenant and
// its users are deactivated, not deleted. The dependents check runs under
// an exclusive tenant lock, which customer and budget creation wait on.
func (s *AdminProviderService) Delete(ctx context.Context, id string) Result[struct{}] {
	const op = "admin_provider.delete"
	err := withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		p, err := g.Providers.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := g.Tenants.Lock(ctx, p.TenantID, store.LockUpdate); err != nil {
			return err
		}
		deps, err := st.Providers.Dependents(ctx, p.TenantID)
		if err != nil {
			return err
		}
		if err := dependentsError(deps); err != nil {
			return err
		}

		if err := st.Providers.Delete(ctx, p.TenantID, p.ID); err != nil {
			return err
		}
		if err := removeParty(ctx, st, p.TenantID, p.CommonDataID, p.ContactID, p.AddressID); err != nil {
			return err
		}
		if err := st.Users.SetActive(ctx, p.TenantID, p.UserID, false); err != nil {
			return err
		}
		if err := g.Tenants.SetActive(ctx, p.TenantID, false); err != nil {
			return err
		}
		return recordActivity(ctx, st, tenancy.Scope{TenantID: p.TenantID}, ActivityEntry{
			Action:      model.ActionDeleted,
			EntityType:  "provider",
			EntityID:    p.ID,
			Description: "provider deleted by platform admin",
		})
	})
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	s.invalidate(ctx)
	return succeed(op, struct{}{}, "provider deleted")
}

func dependentsError(d model.ProviderDependents) error {
	switch {
	case d.Customers > 0:
		return forbidden("provider has %d customers and cannot be deleted", d.Customers)
	case d.Budgets > 0:
		return forbidden("provider has %d budgets and cannot be deleted", d.Budgets)
	case d.Services > 0:
		return forbidden("provider has %d services and cannot be deleted", d.Services)
	case d.Invoices > 0:
		return forbidden("provider has %d invoices and cannot be deleted", d.Invoices)
	}
	return nil
}

// invalidate drops the statistics key and every provider entry. Failures
// are logged; stale entries expire with their TTL.
func (s *AdminProviderService) invalidate(ctx context.Context) {
	log := zerolog.Ctx(ctx)
	if err := s.cache.Delete(ctx, ProviderStatsKey); err != nil {
		log.Warn().Err(err).Str("key", ProviderStatsKey).Msg("cache invalidation failed")
	}
	if err := s.cache.ForgetPattern(ctx, ProviderKeyPattern); err != nil {
		log.Warn().Err(err).Str("pattern", ProviderKeyPattern).Msg("cache invalidation failed")
	}
}
