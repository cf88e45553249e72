package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/crypto"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

// TrialPolicy is the plan a new tenant starts on.
type TrialPolicy struct {
	PlanSlug string
	Days     int
}

// account is a new tenant with its owner user and provider.
type account struct {
	email    string
	password string
	party    *party
	business *request.BusinessData
	terms    bool

	tenant   *model.Tenant
	user     *model.User
	provider *model.Provider
}

// open writes the tenant, owner user, party rows, provider and a trial
// subscription. It must run inside a transaction.
func (a *account) open(ctx context.Context, st *store.Store, g *store.Global, trial TrialPolicy, at time.Time) error {
	hash, err := crypto.HashPassword(a.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	name := a.party.common.FullName()
	if a.party.common.CompanyName != nil {
		name = *a.party.common.CompanyName
	}
	a.tenant = &model.Tenant{ID: platform.NewID(), Name: name, IsActive: true}
	if err := g.Tenants.Insert(ctx, a.tenant); err != nil {
		return err
	}
	tenantID := a.tenant.ID

	fullName := a.party.common.FullName()
	a.user = &model.User{
		ID:           platform.NewID(),
		Name:         &fullName,
		Email:        a.email,
		PasswordHash: hash,
		Role:         model.RoleProvider,
		IsActive:     true,
	}
	if err := st.Users.Insert(ctx, tenantID, a.user); err != nil {
		return err
	}

	if err := a.party.insert(ctx, st, tenantID); err != nil {
		return err
	}
	commonID, contactID, addressID := a.party.ids()
	a.provider = &model.Provider{
		ID:            platform.NewID(),
		UserID:        a.user.ID,
		CommonDataID:  commonID,
		ContactID:     contactID,
		AddressID:     addressID,
		TermsAccepted: a.terms,
		IsActive:      true,
	}
	if err := st.Providers.Insert(ctx, tenantID, a.provider); err != nil {
		return err
	}
	bd, err := businessDataFrom(a.business, a.provider.ID)
	if err != nil {
		return err
	}
	if bd != nil {
		if err := st.BusinessData.Upsert(ctx, tenantID, bd); err != nil {
			return err
		}
	}

	plan, err := g.Plans.GetBySlug(ctx, trial.PlanSlug)
	if err != nil {
		return fmt.Errorf("load trial plan %s: %w", trial.PlanSlug, err)
	}
	end := at.AddDate(0, 0, trial.Days)
	return st.Subscriptions.Insert(ctx, tenantID, &model.PlanSubscription{
		ID:                platform.NewID(),
		ProviderID:        a.provider.ID,
		PlanID:            plan.ID,
		Status:            model.SubscriptionActive,
		TransactionAmount: decimal.Zero,
		StartDate:         at,
		EndDate:           &end,
	})
}
