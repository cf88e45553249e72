package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edvin/easybudget/internal/model"
)

const invoiceColumns = `id, tenant_id, service_id, customer_id, code, status, subtotal, discount, total, due_date,
	payment_method, transaction_amount, transaction_date, notes, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }, inv *model.Invoice) error {
	return row.Scan(&inv.ID, &inv.TenantID, &inv.ServiceID, &inv.CustomerID, &inv.Code, &inv.Status,
		&inv.Subtotal, &inv.Discount, &inv.Total, &inv.DueDate,
		&inv.PaymentMethod, &inv.TransactionAmount, &inv.TransactionDate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
}

// InvoiceFilter narrows Invoices.List.
type InvoiceFilter struct {
	Status     string
	CustomerID string
	Search     string
}

// Payment carries the fields recorded when an invoice is paid.
type Payment struct {
	Method string
	Amount decimal.Decimal
	Date   time.Time
}

type Invoices struct {
	db Querier
}

func (r *Invoices) Insert(ctx context.Context, tenantID string, inv *model.Invoice) error {
	inv.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO invoices (id, tenant_id, service_id, customer_id, code, status, subtotal, discount, total, due_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		inv.ID, tenantID, inv.ServiceID, inv.CustomerID, inv.Code, inv.Status,
		inv.Subtotal, inv.Discount, inv.Total, inv.DueDate, inv.Notes,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", mapError(err))
	}
	return nil
}

func (r *Invoices) Get(ctx context.Context, tenantID, id string) (*model.Invoice, error) {
	var inv model.Invoice
	err := scanInvoice(r.db.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &inv)
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, mapError(err))
	}
	return &inv, nil
}

func (r *Invoices) List(ctx context.Context, tenantID string, f InvoiceFilter, page Page) ([]model.Invoice, bool, error) {
	q := newQuery(`SELECT ` + invoiceColumns + ` FROM invoices`)
	q.add(" WHERE tenant_id = " + q.arg(tenantID))
	if f.Status != "" {
		q.add(" AND status = " + q.arg(f.Status))
	}
	if f.CustomerID != "" {
		q.add(" AND customer_id = " + q.arg(f.CustomerID))
	}
	if f.Search != "" {
		q.add(" AND code ILIKE " + q.arg("%"+f.Search+"%"))
	}
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, false, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate invoices: %w", err)
	}
	invoices, more := trim(invoices, page.Limit)
	return invoices, more, nil
}

// UpdateStatus moves the invoice from one status to another, failing with
// ErrStale when the stored status is no longer from. A non-nil payment is
// recorded in the same statement.
func (r *Invoices) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.InvoiceStatus, payment *Payment) error {
	var (
		method *string
		amount *decimal.Decimal
		date   *time.Time
	)
	if payment != nil {
		method, amount, date = &payment.Method, &payment.Amount, &payment.Date
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE invoices SET status = $1,
		   payment_method = COALESCE($2, payment_method),
		   transaction_amount = COALESCE($3, transaction_amount),
		   transaction_date = COALESCE($4, transaction_date),
		   updated_at = now()
		 WHERE tenant_id = $5 AND id = $6 AND status = $7`,
		to, method, amount, date, tenantID, id, from,
	)
	if err != nil {
		return fmt.Errorf("update invoice %s status: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice %s status: %w", id, ErrStale)
	}
	return nil
}

// ExistsForService reports whether the service already has an invoice that
// is not cancelled.
func (r *Invoices) ExistsForService(ctx context.Context, tenantID, serviceID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND service_id = $2 AND status <> 'CANCELLED')`,
		tenantID, serviceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice for service %s: %w", serviceID, mapError(err))
	}
	return exists, nil
}

func (r *Invoices) IsUniqueInTenant(ctx context.Context, tenantID, code, excludeID string) (bool, error) {
	return isUniqueInTenant(ctx, r.db, "invoices", "code", tenantID, code, excludeID)
}

func (r *Invoices) CountByStatus(ctx context.Context, tenantID string) (map[model.InvoiceStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM invoices WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count invoices by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.InvoiceStatus]int)
	for rows.Next() {
		var status model.InvoiceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan invoice count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice counts: %w", err)
	}
	return counts, nil
}

// PaidRevenue sums the totals of paid invoices created at or after since.
func (r *Invoices) PaidRevenue(ctx context.Context, tenantID string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(sum(total), 0) FROM invoices WHERE tenant_id = $1 AND status = 'PAID' AND created_at >= $2`,
		tenantID, since,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum paid invoices: %w", mapError(err))
	}
	return total, nil
}
