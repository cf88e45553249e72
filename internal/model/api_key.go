package model

import (
	"slices"
	"time"
)

// API key scopes. Read keys may only issue safe requests.
const (
	ScopeAdmin = "admin"
	ScopeRead  = "read"
)

// APIKey authenticates platform operators against the admin API.
type APIKey struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	KeyHash   string     `json:"-"`
	KeyPrefix string     `json:"key_prefix,omitempty"`
	Scopes    []string   `json:"scopes"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (k *APIKey) HasScope(scope string) bool {
	return slices.Contains(k.Scopes, scope)
}

// CanWrite reports whether the key may issue mutating requests.
func (k *APIKey) CanWrite() bool {
	return k.HasScope(ScopeAdmin)
}
