package store

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/easybudget/internal/model"
)

const providerColumns = `id, tenant_id, user_id, common_data_id, contact_id, address_id, terms_accepted, is_active, created_at, updated_at`

func scanProvider(row interface{ Scan(...any) error }, p *model.Provider) error {
	return row.Scan(&p.ID, &p.TenantID, &p.UserID, &p.CommonDataID, &p.ContactID, &p.AddressID,
		&p.TermsAccepted, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

// Providers is the tenant-scoped provider repository.
type Providers struct {
	db Querier
}

func (r *Providers) Insert(ctx context.Context, tenantID string, p *model.Provider) error {
	p.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO providers (id, tenant_id, user_id, common_data_id, contact_id, address_id, terms_accepted, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		p.ID, tenantID, p.UserID, p.CommonDataID, p.ContactID, p.AddressID, p.TermsAccepted, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert provider: %w", mapError(err))
	}
	return nil
}

func (r *Providers) Get(ctx context.Context, tenantID, id string) (*model.Provider, error) {
	var p model.Provider
	err := scanProvider(r.db.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &p)
	if err != nil {
		return nil, fmt.Errorf("get provider %s: %w", id, mapError(err))
	}
	return &p, nil
}

// Current returns the provider that owns the tenant.
func (r *Providers) Current(ctx context.Context, tenantID string) (*model.Provider, error) {
	var p model.Provider
	err := scanProvider(r.db.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE tenant_id = $1 ORDER BY created_at LIMIT 1`, tenantID,
	), &p)
	if err != nil {
		return nil, fmt.Errorf("get provider for tenant %s: %w", tenantID, mapError(err))
	}
	return &p, nil
}

func (r *Providers) Update(ctx context.Context, tenantID string, p *model.Provider) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE providers SET common_data_id = $1, contact_id = $2, address_id = $3, terms_accepted = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		p.CommonDataID, p.ContactID, p.AddressID, p.TermsAccepted, tenantID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update provider %s: %w", p.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update provider %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *Providers) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM providers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete provider %s: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete provider %s: %w", id, ErrNotFound)
	}
	return nil
}

// Dependents counts the tenant's business records.
func (r *Providers) Dependents(ctx context.Context, tenantID string) (model.ProviderDependents, error) {
	var d model.ProviderDependents
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM customers WHERE tenant_id = $1),
		   (SELECT count(*) FROM budgets WHERE tenant_id = $1),
		   (SELECT count(*) FROM services WHERE tenant_id = $1),
		   (SELECT count(*) FROM invoices WHERE tenant_id = $1)`, tenantID,
	).Scan(&d.Customers, &d.Budgets, &d.Services, &d.Invoices)
	if err != nil {
		return d, fmt.Errorf("count provider dependents: %w", mapError(err))
	}
	return d, nil
}

// ProviderSummary is a provider row joined with its display fields.
type ProviderSummary struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProviderFilter narrows the admin provider list.
type ProviderFilter struct {
	Search string
	Active *bool
}

// GlobalProviders gives platform administrators access to every tenant's
// provider.
type GlobalProviders struct {
	db Querier
}

func (r *GlobalProviders) List(ctx context.Context, f ProviderFilter, page Page) ([]ProviderSummary, bool, error) {
	q := newQuery(`SELECT p.id, p.tenant_id,
		  COALESCE(NULLIF(cd.company_name, ''), trim(COALESCE(cd.first_name, '') || ' ' || COALESCE(cd.last_name, ''))),
		  COALESCE(ct.email, u.email), p.is_active, p.created_at
		FROM providers p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN common_datas cd ON cd.id = p.common_data_id
		LEFT JOIN contacts ct ON ct.id = p.contact_id
		WHERE true`)
	if f.Search != "" {
		ph := q.arg("%" + f.Search + "%")
		q.add(fmt.Sprintf(" AND (cd.first_name ILIKE %[1]s OR cd.last_name ILIKE %[1]s OR cd.company_name ILIKE %[1]s OR ct.email ILIKE %[1]s OR u.email ILIKE %[1]s)", ph))
	}
	if f.Active != nil {
		q.add(" AND p.is_active = " + q.arg(*f.Active))
	}
	q.paginate("p", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var out []ProviderSummary
	for rows.Next() {
		var s ProviderSummary
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Email, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan provider: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate providers: %w", err)
	}
	out, more := trim(out, page.Limit)
	return out, more, nil
}

func (r *GlobalProviders) Get(ctx context.Context, id string) (*model.Provider, error) {
	var p model.Provider
	err := scanProvider(r.db.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id), &p)
	if err != nil {
		return nil, fmt.Errorf("get provider %s: %w", id, mapError(err))
	}
	return &p, nil
}

// ToggleActive flips is_active and nothing else, returning the new value.
func (r *GlobalProviders) ToggleActive(ctx context.Context, id string) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`UPDATE providers SET is_active = NOT is_active, updated_at = now() WHERE id = $1 RETURNING is_active`, id,
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("toggle provider %s: %w", id, mapError(err))
	}
	return active, nil
}

// Statistics summarises providers across all tenants. monthStart bounds
// the "new this month" count.
func (r *GlobalProviders) Statistics(ctx context.Context, monthStart time.Time) (model.ProviderStatistics, error) {
	var s model.ProviderStatistics
	err := r.db.QueryRow(ctx,
		`SELECT
		   count(*),
		   count(*) FILTER (WHERE is_active),
		   count(*) FILTER (WHERE NOT is_active),
		   count(*) FILTER (WHERE created_at >= $1),
		   (SELECT count(DISTINCT provider_id) FROM plan_subscriptions WHERE status = 'active')
		 FROM providers`, monthStart,
	).Scan(&s.Total, &s.Active, &s.Inactive, &s.NewThisMonth, &s.Subscribed)
	if err != nil {
		return s, fmt.Errorf("provider statistics: %w", mapError(err))
	}
	return s, nil
}
