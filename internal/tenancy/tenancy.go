// Package tenancy carries the authenticated tenant scope of a request
// through context.Context.
package tenancy

import (
	"context"
	"errors"
)

type contextKey string

const scopeKey contextKey = "tenant_scope"

// ErrNoScope is returned when a tenant-scoped operation runs without an
// authenticated tenant in the context.
var ErrNoScope = errors.New("no tenant scope in context")

// Scope identifies who is acting and on behalf of which tenant.
type Scope struct {
	TenantID string
	UserID   string
	Email    string
	Role     string
}

// WithScope returns a copy of ctx carrying the scope.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// FromContext returns the scope stored in ctx, if any.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey).(Scope)
	if !ok || s.TenantID == "" {
		return Scope{}, false
	}
	return s, true
}

// Require is FromContext that fails with ErrNoScope.
func Require(ctx context.Context) (Scope, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return Scope{}, ErrNoScope
	}
	return s, nil
}

// UserIDPtr returns the acting user id or nil for system actions.
func (s Scope) UserIDPtr() *string {
	if s.UserID == "" {
		return nil
	}
	id := s.UserID
	return &id
}
