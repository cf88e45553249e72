package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edvin/easybudget/internal/core"
)

func TestCustomerCreate_InvalidJSON(t *testing.T) {
	h := NewCustomer(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequestRaw(http.MethodPost, "/customers", "{bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "invalid JSON")
}

func TestCustomerCreate_UnknownField(t *testing.T) {
	h := NewCustomer(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/customers", map[string]any{"nickname": "x"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec)["message"], "unknown field")
}

func TestCustomerGet_NoTenantIsForbidden(t *testing.T) {
	h := NewCustomer(core.NewCustomerService(nil))
	rec := httptest.NewRecorder()

	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/customers/c1", nil), "id", "c1"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec)["status"])
}

func TestCustomerGet_MissingID(t *testing.T) {
	h := NewCustomer(nil)
	rec := httptest.NewRecorder()

	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/customers/", nil), "id", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetChangeStatus_MissingStatus(t *testing.T) {
	h := NewBudget(nil)
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPatch, "/budgets/b1/status", map[string]any{"comment": "x"}), "id", "b1")

	h.ChangeStatus(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec)["message"], "validation error")
}

func TestRegister_TermsRequired(t *testing.T) {
	h := NewAuth(nil)
	rec := httptest.NewRecorder()

	h.Register(rec, newRequest(http.MethodPost, "/auth/register", map[string]any{
		"first_name": "Ana",
		"email":      "ana@example.com",
		"password":   "correct-horse",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	StatusCatalog(rec, withChiURLParam(newRequest(http.MethodGet, "/statuses/budget", nil), "entity", "budget"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, data, "budget")
}

func TestStatusCatalog_UnknownEntity(t *testing.T) {
	rec := httptest.NewRecorder()
	StatusCatalog(rec, withChiURLParam(newRequest(http.MethodGet, "/statuses/widgets", nil), "entity", "widgets"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, rec)["status"])
}

func TestReportExport_BadFormat(t *testing.T) {
	h := NewReport(nil)
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/reports/customers?format=docx", nil), "entity", "customers")

	h.Export(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportExport_Download(t *testing.T) {
	db := &emptyDB{}
	h := NewReport(core.NewReportService(db, nil))
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/reports/customers?format=csv", nil), "entity", "customers")

	h.Export(rec, withTenant(r, "t1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", strings.Split(rec.Header().Get("Content-Type"), ";")[0])
	assert.Regexp(t, `^attachment; filename="customers-\d{8}-\d{6}\.csv"$`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "name,email,phone"))
}

func TestReportExport_UploadWithoutStorage(t *testing.T) {
	h := NewReport(core.NewReportService(&emptyDB{}, nil))
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/reports/invoices?format=json&upload=true", nil), "entity", "invoices")

	h.Export(rec, withTenant(r, "t1"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_DATA", decodeEnvelope(t, rec)["status"])
}
