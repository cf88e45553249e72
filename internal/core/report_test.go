package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/api/request"
)

type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memStorage) Put(_ context.Context, key, contentType string, body []byte) error {
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example.com/" + key + "?sig=1", nil
}

func customerScan(id, first, last, email string) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = "t1"
		cd := "cd-" + id
		*(dest[2].(**string)) = &cd
		ct := "ct-" + id
		*(dest[3].(**string)) = &ct
		*(dest[5].(*string)) = "active"
		*(dest[6].(*time.Time)) = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		*(dest[8].(**string)) = &first
		*(dest[9].(**string)) = &last
		*(dest[13].(**string)) = &email
		return nil
	}
}

func TestReportExport_CustomersCSVUploaded(t *testing.T) {
	db := &mockDB{}
	storage := &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewReportService(db, storage)
	ctx := scoped("t1")

	db.On("Query", ctx, sqlContains("FROM customers c", "c.tenant_id = $1"), []any{"t1", reportPageSize + 1}).
		Return(newMockRows(
			customerScan("c1", "Ana", "Souza", "ana@example.com"),
			customerScan("c2", "Bruno", "Lima", "bruno@example.com"),
		), nil)
	db.On("QueryRow", ctx, sqlContains("INSERT INTO activities"), mock.MatchedBy(func(args []any) bool {
		return args[4] == "report" && strings.HasPrefix(args[6].(string), "report.generated")
	})).Return(okRow())

	res := svc.Export(ctx, request.ExportReport{Entity: "customers", Format: "csv", Upload: true})
	require.True(t, res.IsSuccess(), res.Message)
	assert.Equal(t, 2, res.Data.Rows)
	assert.Equal(t, "text/csv; charset=utf-8", res.Data.MIME)
	assert.True(t, strings.HasSuffix(res.Data.Filename, ".csv"))
	assert.Contains(t, string(res.Data.Body), "Ana Souza,ana@example.com")
	assert.Contains(t, res.Data.URL, "reports/t1/customers/")

	require.Len(t, storage.objects, 1)
	for key, body := range storage.objects {
		assert.Equal(t, res.Data.Body, body)
		assert.Equal(t, res.Data.MIME, storage.types[key])
	}
	db.AssertExpectations(t)
}

func TestReportExport_UploadWithoutStorage(t *testing.T) {
	db := &mockDB{}
	res := NewReportService(db, nil).Export(scoped("t1"), request.ExportReport{Entity: "budgets", Format: "pdf", Upload: true})
	assert.Equal(t, StatusInvalidData, res.Status)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportExport_InvoicesJSONEmpty(t *testing.T) {
	db := &mockDB{}
	ctx := scoped("t1")
	db.On("Query", ctx, sqlContains("FROM invoices"), mock.Anything).Return(newMockRows(), nil)
	db.On("QueryRow", ctx, sqlContains("INSERT INTO activities"), mock.Anything).Return(okRow())

	res := NewReportService(db, nil).Export(ctx, request.ExportReport{Entity: "invoices", Format: "json"})
	require.True(t, res.IsSuccess(), res.Message)
	assert.Equal(t, 0, res.Data.Rows)
	assert.Equal(t, "[]", string(res.Data.Body))
	assert.Empty(t, res.Data.URL)
}
