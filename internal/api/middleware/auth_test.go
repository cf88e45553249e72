package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/tenancy"
)

type fakeValidator struct {
	claims    *core.Claims
	err       error
	activeErr error
	got       string
}

func (f *fakeValidator) ValidateToken(token string) (*core.Claims, error) {
	f.got = token
	return f.claims, f.err
}

func (f *fakeValidator) CheckActive(context.Context, *core.Claims) error {
	return f.activeErr
}

type fakeKeys struct {
	key *model.APIKey
	err error
}

func (f fakeKeys) Authenticate(_ context.Context, key string) (*model.APIKey, error) {
	return f.key, f.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func scopeEcho(t *testing.T, got *tenancy.Scope) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, ok := tenancy.FromContext(r.Context())
		if ok {
			*got = sc
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingToken(t *testing.T) {
	v := &fakeValidator{}
	var got tenancy.Scope
	rec := httptest.NewRecorder()
	Auth(v)(scopeEcho(t, &got)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/customers", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing bearer token", decodeBody(t, rec)["message"])
	assert.Empty(t, v.got)
}

func TestAuth_InvalidToken(t *testing.T) {
	v := &fakeValidator{err: errors.New("token is expired")}
	var got tenancy.Scope
	req := httptest.NewRequest("GET", "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	Auth(v)(scopeEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "abc.def.ghi", v.got)
	assert.Empty(t, got.TenantID)
}

func TestAuth_SetsScope(t *testing.T) {
	v := &fakeValidator{claims: &core.Claims{
		TenantID:         "t1",
		Email:            "owner@example.com",
		Role:             "owner",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}}
	var got tenancy.Scope
	req := httptest.NewRequest("GET", "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	Auth(v)(scopeEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenancy.Scope{TenantID: "t1", UserID: "u1", Email: "owner@example.com", Role: "owner"}, got)
}

func TestAuth_DeactivatedAccount(t *testing.T) {
	for _, tc := range []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"inactive", core.ErrInactiveAccount, http.StatusUnauthorized, "account is inactive"},
		{"lookup failed", errors.New("connection refused"), http.StatusInternalServerError, "internal error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := &fakeValidator{
				claims:    &core.Claims{TenantID: "t1", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}},
				activeErr: tc.err,
			}
			var got tenancy.Scope
			req := httptest.NewRequest("GET", "/api/v1/customers", nil)
			req.Header.Set("Authorization", "Bearer still-valid")
			rec := httptest.NewRecorder()
			Auth(v)(scopeEcho(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.message, decodeBody(t, rec)["message"])
			assert.Empty(t, got.TenantID)
		})
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	v := &fakeValidator{err: errors.New("should not be called")}
	var got tenancy.Scope
	rec := httptest.NewRecorder()
	OptionalAuth(v)(scopeEcho(t, &got)).ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/support", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got.TenantID)
	assert.Empty(t, v.got)
}

func TestOptionalAuth_BadTokenRejected(t *testing.T) {
	v := &fakeValidator{err: errors.New("bad signature")}
	var got tenancy.Scope
	req := httptest.NewRequest("POST", "/api/v1/support", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	OptionalAuth(v)(scopeEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"empty", "", ""},
		{"no prefix", "abc123", ""},
		{"basic auth ignored", "Basic dXNlcjpwYXNz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearer(req))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := GetAPIKey(r.Context())
		require.NotNil(t, k)
		w.Header().Set("X-Key-ID", k.ID)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		APIKeyAuth(fakeKeys{})(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/admin/providers", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "missing API key", decodeBody(t, rec)["message"])
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/providers", nil)
		req.Header.Set("X-API-Key", "eb_wrong")
		rec := httptest.NewRecorder()
		APIKeyAuth(fakeKeys{err: core.ErrInvalidAPIKey})(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid API key", decodeBody(t, rec)["message"])
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/providers", nil)
		req.Header.Set("X-API-Key", "eb_good")
		rec := httptest.NewRecorder()
		APIKeyAuth(fakeKeys{key: &model.APIKey{ID: "k1", Name: "ops"}})(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "k1", rec.Header().Get("X-Key-ID"))
	})

	t.Run("read-only key cannot mutate", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/admin/plans", nil)
		req.Header.Set("X-API-Key", "eb_read")
		rec := httptest.NewRecorder()
		APIKeyAuth(fakeKeys{key: &model.APIKey{ID: "k2", Scopes: []string{model.ScopeRead}}})(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "API key is read-only", decodeBody(t, rec)["message"])
	})

	t.Run("admin key can mutate", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/admin/plans", nil)
		req.Header.Set("X-API-Key", "eb_admin")
		rec := httptest.NewRecorder()
		APIKeyAuth(fakeKeys{key: &model.APIKey{ID: "k3", Scopes: []string{model.ScopeAdmin}}})(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
