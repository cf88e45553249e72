// Package store contains the Postgres repositories. Tenant-scoped
// repositories take the tenant id on every call and never read or write
// rows of another tenant. Cross-tenant access lives in Global.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/easybudget/internal/platform"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record conflicts with an existing record")
	ErrReferenced = errors.New("record is referenced by other records")
	ErrStale      = errors.New("record was modified concurrently")
)

// mapError translates driver errors into the package sentinels while
// keeping the original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s: %w", ErrConflict, pgErr.ConstraintName, err)
	case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
		return fmt.Errorf("%w: %s: %w", ErrReferenced, pgErr.ConstraintName, err)
	}
	return err
}

// Page is a keyset pagination request over (created_at, id) descending.
type Page struct {
	Limit  int
	Cursor *platform.Cursor
}

// trim cuts a limit+1 result back to the page size and reports whether more
// rows exist.
func trim[T any](items []T, limit int) ([]T, bool) {
	if limit > 0 && len(items) > limit {
		return items[:limit], true
	}
	return items, false
}

// query accumulates SQL text and positional arguments.
type query struct {
	sb   strings.Builder
	args []any
}

func newQuery(base string) *query {
	q := &query{}
	q.sb.WriteString(base)
	return q
}

// arg binds v and returns its placeholder.
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) add(s string) *query {
	q.sb.WriteString(s)
	return q
}

func (q *query) String() string { return q.sb.String() }

// paginate appends the keyset condition, ordering and limit for a table
// alias ("" for none).
func (q *query) paginate(alias string, p Page) {
	col := func(c string) string {
		if alias == "" {
			return c
		}
		return alias + "." + c
	}
	if p.Cursor != nil {
		q.add(fmt.Sprintf(" AND (%s, %s) < (%s, %s)", col("created_at"), col("id"), q.arg(p.Cursor.CreatedAt), q.arg(p.Cursor.ID)))
	}
	q.add(fmt.Sprintf(" ORDER BY %s DESC, %s DESC", col("created_at"), col("id")))
	if p.Limit > 0 {
		q.add(" LIMIT " + q.arg(p.Limit+1))
	}
}

// isUniqueInTenant checks that no other row of the tenant holds value in
// column. table and column must come from code, never from input.
func isUniqueInTenant(ctx context.Context, db Querier, table, column, tenantID, value, excludeID string) (bool, error) {
	sql := fmt.Sprintf(`SELECT NOT EXISTS (SELECT 1 FROM %s WHERE tenant_id = $1 AND %s = $2 AND ($3 = '' OR id::text <> $3))`, table, column)
	var unique bool
	if err := db.QueryRow(ctx, sql, tenantID, value, excludeID).Scan(&unique); err != nil {
		return false, fmt.Errorf("check unique %s.%s: %w", table, column, mapError(err))
	}
	return unique, nil
}

// Store groups the tenant-scoped repositories over one Querier. Build one
// over a pgx.Tx to run several repositories in a single transaction.
type Store struct {
	CommonData    *CommonDatas
	Contacts      *Contacts
	Addresses     *Addresses
	BusinessData  *BusinessDatas
	Users         *Users
	Providers     *Providers
	Customers     *Customers
	Budgets       *Budgets
	Services      *Services
	Invoices      *Invoices
	Subscriptions *Subscriptions
	Support       *SupportTickets
	Activities    *Activities
}

func New(db Querier) *Store {
	return &Store{
		CommonData:    &CommonDatas{db: db},
		Contacts:      &Contacts{db: db},
		Addresses:     &Addresses{db: db},
		BusinessData:  &BusinessDatas{db: db},
		Users:         &Users{db: db},
		Providers:     &Providers{db: db},
		Customers:     &Customers{db: db},
		Budgets:       &Budgets{db: db},
		Services:      &Services{db: db},
		Invoices:      &Invoices{db: db},
		Subscriptions: &Subscriptions{db: db},
		Support:       &SupportTickets{db: db},
		Activities:    &Activities{db: db},
	}
}

// Global groups repositories that work across tenants. Only platform
// administration and background jobs use it.
type Global struct {
	Tenants    *Tenants
	Accounts   *Accounts
	Plans      *Plans
	Providers  *GlobalProviders
	APIKeys    *APIKeys
	Deliveries *Deliveries
	Billing    *Billing
}

func NewGlobal(db Querier) *Global {
	return &Global{
		Tenants:    &Tenants{db: db},
		Accounts:   &Accounts{db: db},
		Plans:      &Plans{db: db},
		Providers:  &GlobalProviders{db: db},
		APIKeys:    &APIKeys{db: db},
		Deliveries: &Deliveries{db: db},
		Billing:    &Billing{db: db},
	}
}
