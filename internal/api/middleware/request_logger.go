package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const requestInfoKey contextKey = "request_info"

// requestInfo is filled in by middleware further down the chain and read
// back by RequestLogger once the request completes.
type requestInfo struct {
	tenantID string
}

func setTenant(ctx context.Context, tenantID string) {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.tenantID = tenantID
	}
}

// RequestLogger returns a middleware that puts a request-scoped logger into
// the context and logs each request when it completes.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := middleware.GetReqID(r.Context())
			reqLogger := logger.With().Str("request_id", reqID).Logger()
			info := &requestInfo{}
			ctx := context.WithValue(r.Context(), requestInfoKey, info)
			r = r.WithContext(reqLogger.WithContext(ctx))

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			ev := reqLogger.Info()
			if ww.status >= 500 {
				ev = reqLogger.Error()
			}
			if info.tenantID != "" {
				ev = ev.Str("tenant_id", info.tenantID)
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
