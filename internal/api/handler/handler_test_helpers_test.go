package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/tenancy"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withTenant(r *http.Request, tenantID string) *http.Request {
	return r.WithContext(tenancy.WithScope(r.Context(), tenancy.Scope{TenantID: tenantID, UserID: "u1"}))
}

// decodeEnvelope parses the response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// emptyDB answers every query with no rows and every insert with success.
type emptyDB struct {
	queries []string
}

func (d *emptyDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	d.queries = append(d.queries, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (d *emptyDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	d.queries = append(d.queries, sql)
	return &emptyRows{}, nil
}

func (d *emptyDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	d.queries = append(d.queries, sql)
	return okRow{}
}

func (d *emptyDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type okRow struct{}

func (okRow) Scan(...any) error { return nil }

type emptyRows struct{}

func (*emptyRows) Next() bool                                   { return false }
func (*emptyRows) Scan(...any) error                            { return nil }
func (*emptyRows) Err() error                                   { return nil }
func (*emptyRows) Close()                                       {}
func (*emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (*emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (*emptyRows) RawValues() [][]byte                          { return nil }
func (*emptyRows) Values() ([]any, error)                       { return nil, nil }
func (*emptyRows) Conn() *pgx.Conn                              { return nil }
