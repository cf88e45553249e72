package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/easybudget/internal/model"
)

// Tenants is global: a tenant row is the scope itself.
type Tenants struct {
	db Querier
}

func (r *Tenants) Insert(ctx context.Context, t *model.Tenant) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tenants (id, name, is_active) VALUES ($1, $2, $3) RETURNING created_at, updated_at`,
		t.ID, t.Name, t.IsActive,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", mapError(err))
	}
	return nil
}

func (r *Tenants) Get(ctx context.Context, id string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.QueryRow(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", id, mapError(err))
	}
	return &t, nil
}

func (r *Tenants) List(ctx context.Context, search string, page Page) ([]model.Tenant, bool, error) {
	q := newQuery(`SELECT id, name, is_active, created_at, updated_at FROM tenants WHERE true`)
	if search != "" {
		q.add(" AND name ILIKE " + q.arg("%"+search+"%"))
	}
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate tenants: %w", err)
	}
	tenants, more := trim(tenants, page.Limit)
	return tenants, more, nil
}

// LockMode is the row lock Tenants.Lock takes.
type LockMode string

const (
	// LockShare is held by writers that add business rows to a tenant.
	LockShare LockMode = "FOR SHARE"
	// LockUpdate excludes those writers, e.g. while a provider is deleted.
	LockUpdate LockMode = "FOR UPDATE"
)

// Lock locks the tenant row until the surrounding transaction ends.
func (r *Tenants) Lock(ctx context.Context, id string, mode LockMode) error {
	var got string
	err := r.db.QueryRow(ctx, `SELECT id FROM tenants WHERE id = $1 `+string(mode), id).Scan(&got)
	if err != nil {
		return fmt.Errorf("lock tenant %s: %w", id, mapError(err))
	}
	return nil
}

func (r *Tenants) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE tenants SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set tenant %s active: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set tenant %s active: %w", id, ErrNotFound)
	}
	return nil
}

// Users is the tenant-scoped user repository.
type Users struct {
	db Querier
}

func (r *Users) Insert(ctx context.Context, tenantID string, u *model.User) error {
	u.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, tenant_id, name, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		u.ID, tenantID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapError(err))
	}
	return nil
}

func (r *Users) Get(ctx context.Context, tenantID, id string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, email, password_hash, role, is_active, email_verified_at, created_at, updated_at
		 FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.VerifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, mapError(err))
	}
	return &u, nil
}

func (r *Users) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3`,
		active, tenantID, id,
	); err != nil {
		return fmt.Errorf("set user %s active: %w", id, mapError(err))
	}
	return nil
}

// Accounts resolves users across tenants for authentication, where the
// tenant is not yet known.
type Accounts struct {
	db Querier
}

func (r *Accounts) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.tenant_id, u.name, u.email, u.password_hash, u.role, u.is_active AND t.is_active, u.email_verified_at, u.created_at, u.updated_at
		 FROM users u JOIN tenants t ON t.id = u.tenant_id
		 WHERE lower(u.email) = lower($1)`, email,
	).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.VerifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", mapError(err))
	}
	return &u, nil
}

// Active reports whether the user, its tenant and the tenant's provider are
// all still active. A missing user counts as inactive.
func (r *Accounts) Active(ctx context.Context, tenantID, userID string) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx,
		`SELECT u.is_active AND t.is_active AND COALESCE(p.is_active, true)
		 FROM users u JOIN tenants t ON t.id = u.tenant_id
		 LEFT JOIN providers p ON p.tenant_id = u.tenant_id
		 WHERE u.id = $1 AND u.tenant_id = $2`, userID, tenantID,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check account %s active: %w", userID, mapError(err))
	}
	return active, nil
}

func (r *Accounts) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}
