package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/tenancy"
)

type contextKey string

const apiKeyKey contextKey = "api_key"

// TokenValidator verifies tenant bearer tokens and that their account is
// still active.
type TokenValidator interface {
	ValidateToken(token string) (*core.Claims, error)
	CheckActive(ctx context.Context, c *core.Claims) error
}

// KeyAuthenticator resolves admin API keys.
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, key string) (*model.APIKey, error)
}

// Auth returns middleware that validates JWT Bearer tokens and puts the
// tenant scope of the claims into the context.
func Auth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := v.ValidateToken(token)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected bearer token")
				response.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if err := v.CheckActive(r.Context(), claims); err != nil {
				if errors.Is(err, core.ErrInactiveAccount) {
					response.WriteError(w, http.StatusUnauthorized, "account is inactive")
					return
				}
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("account lookup failed")
				response.WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}

			sc := claims.Scope()
			ctx := tenancy.WithScope(r.Context(), sc)
			setTenant(ctx, sc.TenantID)
			logger := zerolog.Ctx(ctx).With().Str("tenant_id", sc.TenantID).Str("user_id", sc.UserID).Logger()
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is Auth for routes that also serve anonymous callers. A
// missing token passes through without a scope; a bad one is rejected.
func OptionalAuth(v TokenValidator) func(http.Handler) http.Handler {
	auth := Auth(v)
	return func(next http.Handler) http.Handler {
		withAuth := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			withAuth.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuth returns middleware that validates the X-API-Key header of
// platform operators.
func APIKeyAuth(a KeyAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing API key")
				return
			}

			k, err := a.Authenticate(r.Context(), key)
			if err != nil {
				if !errors.Is(err, core.ErrInvalidAPIKey) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("api key lookup failed")
				}
				response.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			if !k.CanWrite() && !isSafeMethod(r.Method) {
				response.WriteError(w, http.StatusForbidden, "API key is read-only")
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyKey, k)
			logger := zerolog.Ctx(ctx).With().Str("api_key_id", k.ID).Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
		})
	}
}

// GetAPIKey returns the authenticated admin key, if any.
func GetAPIKey(ctx context.Context) *model.APIKey {
	k, _ := ctx.Value(apiKeyKey).(*model.APIKey)
	return k
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
