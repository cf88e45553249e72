package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Healthz(t *testing.T) {
	srv := NewServer(":0", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	ServiceResults.WithLabelValues("budget.change_status", "SUCCESS").Inc()

	srv := NewServer(":0", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `service_results_total{operation="budget.change_status",status="SUCCESS"}`)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(Notifications.WithLabelValues("user_registered", "sent"))
	Notifications.WithLabelValues("user_registered", "sent").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Notifications.WithLabelValues("user_registered", "sent")))
}

func TestRegisterPgxPoolMetrics_Names(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterPgxPoolMetrics(reg, nil)

	// Gauges are registered once per registry.
	assert.Panics(t, func() { RegisterPgxPoolMetrics(reg, nil) })
}

func TestServer_Readyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := NewServer(":0", func(context.Context) error { return nil })
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database down", func(t *testing.T) {
		srv := NewServer(":0", func(context.Context) error { return errors.New("dial tcp: connection refused") })
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})
}
