package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/report"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

const (
	reportPageSize = 500
	reportMaxRows  = 10000
	reportLinkTTL  = 15 * time.Minute
)

// ReportFile is a rendered export. URL is set when the file was uploaded.
type ReportFile struct {
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	Size     int    `json:"size"`
	Rows     int    `json:"rows"`
	URL      string `json:"url,omitempty"`
	Body     []byte `json:"-"`
}

type ReportService struct {
	db      DB
	storage report.Storage
}

// NewReportService accepts a nil storage; uploads then fail with INVALID_DATA.
func NewReportService(db DB, storage report.Storage) *ReportService {
	return &ReportService{db: db, storage: storage}
}

func (s *ReportService) Export(ctx context.Context, in request.ExportReport) Result[*ReportFile] {
	const op = "report.export"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*ReportFile](ctx, op, err)
	}
	if in.Upload && s.storage == nil {
		return fail[*ReportFile](ctx, op, invalid("%s", report.ErrStorageDisabled))
	}

	at := now()
	st := store.New(s.db)
	var table report.Table
	switch in.Entity {
	case "customers":
		table, err = customerTable(ctx, st, sc.TenantID)
	case "budgets":
		table, err = budgetTable(ctx, st, sc.TenantID)
	case "invoices":
		table, err = invoiceTable(ctx, st, sc.TenantID)
	default:
		err = invalid("cannot export %s", in.Entity)
	}
	if err != nil {
		return fail[*ReportFile](ctx, op, err)
	}
	table.GeneratedAt = at

	body, format, err := report.Render(in.Format, table)
	if err != nil {
		return fail[*ReportFile](ctx, op, invalid("%s", err))
	}
	key := report.ObjectKey(sc.TenantID, in.Entity, format, at)
	out := &ReportFile{
		Filename: in.Entity + "-" + at.Format("20060102-150405") + "." + format.Extension,
		MIME:     format.MIME,
		Size:     len(body),
		Rows:     len(table.Rows),
		Body:     body,
	}
	if in.Upload {
		if err := s.storage.Put(ctx, key, format.MIME, body); err != nil {
			return fail[*ReportFile](ctx, op, err)
		}
		if out.URL, err = s.storage.PresignGet(ctx, key, reportLinkTTL); err != nil {
			return fail[*ReportFile](ctx, op, err)
		}
	}

	if err := recordActivity(ctx, st, sc, ActivityEntry{
		Action:      model.ActionExported,
		EntityType:  "report",
		EntityID:    key,
		Description: "report.generated: " + in.Entity + " as " + format.Name,
		Metadata:    map[string]any{"entity": in.Entity, "format": format.Name, "rows": out.Rows, "uploaded": in.Upload},
	}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to record report activity")
	}
	return succeed(op, out, "report generated")
}

// collect pages through list until it reports no more rows or the export
// limit is reached.
func collect[T any](list func(page store.Page) ([]T, bool, error), key func(T) platform.Cursor) ([]T, error) {
	var (
		all  []T
		page = store.Page{Limit: reportPageSize}
	)
	for {
		items, more, err := list(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if !more || len(items) == 0 || len(all) >= reportMaxRows {
			return all, nil
		}
		c := key(items[len(items)-1])
		page.Cursor = &c
	}
}

func customerTable(ctx context.Context, st *store.Store, tenantID string) (report.Table, error) {
	customers, err := collect(func(p store.Page) ([]model.Customer, bool, error) {
		return st.Customers.List(ctx, tenantID, map[string]string{}, p)
	}, func(c model.Customer) platform.Cursor {
		return platform.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	if err != nil {
		return report.Table{}, err
	}
	t := report.Table{
		Title:   "Customers",
		Columns: []string{"name", "email", "phone", "city", "state", "status", "created_at"},
	}
	for _, c := range customers {
		var phone, city, state string
		if c.Contact != nil {
			phone = deref(c.Contact.Phone)
		}
		if c.Address != nil {
			city, state = c.Address.City, c.Address.State
		}
		t.Rows = append(t.Rows, []string{c.Name(), c.Email(), phone, city, state, c.Status, c.CreatedAt.Format(time.DateOnly)})
	}
	return t, nil
}

func budgetTable(ctx context.Context, st *store.Store, tenantID string) (report.Table, error) {
	budgets, err := collect(func(p store.Page) ([]model.Budget, bool, error) {
		return st.Budgets.List(ctx, tenantID, store.BudgetFilter{}, p)
	}, func(b model.Budget) platform.Cursor {
		return platform.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	})
	if err != nil {
		return report.Table{}, err
	}
	t := report.Table{
		Title:   "Budgets",
		Columns: []string{"code", "status", "customer_id", "discount", "total", "due_date", "created_at"},
	}
	for _, b := range budgets {
		t.Rows = append(t.Rows, []string{b.Code, string(b.Status), b.CustomerID,
			b.Discount.StringFixed(2), b.Total.StringFixed(2), formatDate(b.DueDate), b.CreatedAt.Format(time.DateOnly)})
	}
	return t, nil
}

func invoiceTable(ctx context.Context, st *store.Store, tenantID string) (report.Table, error) {
	invoices, err := collect(func(p store.Page) ([]model.Invoice, bool, error) {
		return st.Invoices.List(ctx, tenantID, store.InvoiceFilter{}, p)
	}, func(i model.Invoice) platform.Cursor {
		return platform.Cursor{CreatedAt: i.CreatedAt, ID: i.ID}
	})
	if err != nil {
		return report.Table{}, err
	}
	t := report.Table{
		Title:   "Invoices",
		Columns: []string{"code", "status", "customer_id", "subtotal", "discount", "total", "due_date", "payment_method", "paid_at"},
	}
	for _, i := range invoices {
		t.Rows = append(t.Rows, []string{i.Code, string(i.Status), i.CustomerID,
			i.Subtotal.StringFixed(2), i.Discount.StringFixed(2), i.Total.StringFixed(2),
			formatDate(i.DueDate), deref(i.PaymentMethod), formatDate(i.TransactionDate)})
	}
	return t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
