package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/core"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestServer(t *testing.T, db, cache Pinger) *Server {
	t.Helper()
	s := NewServer(Deps{
		Logger:      zerolog.Nop(),
		Services:    core.NewServices(core.Deps{JWTSecret: "test-secret"}),
		DB:          db,
		Cache:       cache,
		CORSOrigins: []string{"*"},
	})
	t.Cleanup(s.Close)
	return s
}

func serve(s *Server, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	rec := serve(s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	s := newTestServer(t, fakePinger{}, fakePinger{})
	rec := serve(s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"database":"ok","cache":"ok"}`, rec.Body.String())
}

func TestReadyz_CacheDown(t *testing.T) {
	s := newTestServer(t, fakePinger{}, fakePinger{err: errors.New("connection refused")})
	rec := serve(s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var checks map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checks))
	assert.Equal(t, "connection refused", checks["cache"])
	assert.Equal(t, "ok", checks["database"])
}

func TestReadyz_SchemaBehind(t *testing.T) {
	s := NewServer(Deps{
		Logger:   zerolog.Nop(),
		Services: core.NewServices(core.Deps{JWTSecret: "test-secret"}),
		DB:       fakePinger{},
		Schema:   fakePinger{err: errors.New("schema version 4 is behind 6, run migrations")},
	})
	t.Cleanup(s.Close)

	rec := serve(s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var checks map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checks))
	assert.Equal(t, "ok", checks["database"])
	assert.Contains(t, checks["schema"], "run migrations")
}

func TestTenantRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	for _, path := range []string{"/api/v1/customers", "/api/v1/budgets/b1", "/api/v1/dashboard/stats", "/api/v1/reports/customers"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(s, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestTenantRoutesRejectForgedToken(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	rec := serve(s, http.MethodGet, "/api/v1/customers", map[string]string{"Authorization": "Bearer not.a.jwt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	rec := serve(s, http.MethodGet, "/api/v1/admin/providers", map[string]string{"Authorization": "Bearer anything"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing API key", body["message"])
}

func TestPublicStatusCatalog(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	rec := serve(s, http.MethodGet, "/api/v1/statuses/invoice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, fakePinger{}, nil)
	serve(s, http.MethodGet, "/healthz", nil)
	rec := serve(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
