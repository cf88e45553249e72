package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/tenancy"
)

// ActivityRecorder appends activity log entries for the tenant in ctx.
type ActivityRecorder interface {
	Record(ctx context.Context, e core.ActivityEntry) core.Result[struct{}]
}

// AuditLogger records mutating tenant requests in the activity log. Entries
// are written by a background goroutine so a slow insert never delays the
// response.
type AuditLogger struct {
	recorder ActivityRecorder
	logger   zerolog.Logger
	ch       chan auditEntry
	done     chan struct{}
	once     sync.Once
}

type auditEntry struct {
	scope tenancy.Scope
	entry core.ActivityEntry
}

// maxAuditBody is the largest request body copied into an audit entry.
// Larger bodies still reach the handler in full but are not recorded.
const maxAuditBody = 64 << 10

type auditMetadata struct {
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	StatusCode    int             `json:"status_code"`
	RequestBody   json.RawMessage `json:"request_body,omitempty"`
	BodyTruncated bool            `json:"body_truncated,omitempty"`
}

// replayBody is a request body whose first bytes were already read.
type replayBody struct {
	io.Reader
	io.Closer
}

func NewAuditLogger(recorder ActivityRecorder, logger zerolog.Logger) *AuditLogger {
	al := &AuditLogger{
		recorder: recorder,
		logger:   logger,
		ch:       make(chan auditEntry, 1024),
		done:     make(chan struct{}),
	}
	go al.drain()
	return al
}

func (al *AuditLogger) drain() {
	defer close(al.done)
	for e := range al.ch {
		ctx := tenancy.WithScope(al.logger.WithContext(context.Background()), e.scope)
		if res := al.recorder.Record(ctx, e.entry); !res.IsSuccess() {
			al.logger.Error().Err(res.Err).Str("tenant_id", e.scope.TenantID).Msg("failed to write audit entry")
		}
	}
}

// Close stops accepting entries and waits until the buffered ones are
// written.
func (al *AuditLogger) Close() {
	al.once.Do(func() { close(al.ch) })
	<-al.done
}

// Middleware returns a chi middleware that audits mutating requests of
// authenticated tenants.
func (al *AuditLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut &&
			r.Method != http.MethodPatch && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}
		sc, ok := tenancy.FromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		var (
			bodyBytes []byte
			truncated bool
		)
		if r.Body != nil {
			bodyBytes, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBody+1))
			r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(bodyBytes), r.Body), Closer: r.Body}
			if len(bodyBytes) > maxAuditBody {
				bodyBytes, truncated = nil, true
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		resourceType, resourceID := extractResource(r.URL.Path)
		meta := auditMetadata{Method: r.Method, Path: r.URL.Path, StatusCode: sw.status, BodyTruncated: truncated}
		if len(bodyBytes) > 0 && json.Valid(bodyBytes) {
			meta.RequestBody = sanitizeBody(bodyBytes)
		}

		select {
		case al.ch <- auditEntry{
			scope: sc,
			entry: core.ActivityEntry{
				Action:      model.ActionRequest,
				EntityType:  resourceType,
				EntityID:    resourceID,
				Description: fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, sw.status),
				Metadata:    meta,
			},
		}:
		default:
			al.logger.Warn().Msg("audit buffer full, dropping entry")
		}
	})
}

// extractResource returns the last resource type in path and the id that
// follows it, if any:
//
//	/api/v1/customers          -> customers, ""
//	/api/v1/customers/c1       -> customers, c1
//	/api/v1/budgets/b1/status  -> status, ""
func extractResource(path string) (string, string) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/v1/"), "/"), "/")
	var resourceType, resourceID string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i%2 == 0 {
			resourceType, resourceID = part, ""
		} else {
			resourceID = part
		}
	}
	return resourceType, resourceID
}

var sensitiveFields = map[string]bool{
	"password": true, "password_confirmation": true, "current_password": true,
	"api_key": true, "secret": true, "token": true,
}

func sanitizeBody(body []byte) json.RawMessage {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil
	}
	for k := range data {
		if sensitiveFields[k] {
			data[k] = "[REDACTED]"
		}
	}
	sanitized, _ := json.Marshal(data)
	return sanitized
}
