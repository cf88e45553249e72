package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

const budgetColumns = `id, tenant_id, customer_id, code, status, due_date, discount, total, description, payment_terms, created_at, updated_at`

func scanBudget(row interface{ Scan(...any) error }, b *model.Budget) error {
	return row.Scan(&b.ID, &b.TenantID, &b.CustomerID, &b.Code, &b.Status, &b.DueDate,
		&b.Discount, &b.Total, &b.Description, &b.PaymentTerms, &b.CreatedAt, &b.UpdatedAt)
}

// BudgetFilter narrows Budgets.List.
type BudgetFilter struct {
	Status     string
	CustomerID string
	Search     string
}

type Budgets struct {
	db Querier
}

func (r *Budgets) Insert(ctx context.Context, tenantID string, b *model.Budget) error {
	b.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO budgets (id, tenant_id, customer_id, code, status, due_date, discount, total, description, payment_terms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		b.ID, tenantID, b.CustomerID, b.Code, b.Status, b.DueDate, b.Discount, b.Total, b.Description, b.PaymentTerms,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", mapError(err))
	}
	return nil
}

func (r *Budgets) Get(ctx context.Context, tenantID, id string) (*model.Budget, error) {
	var b model.Budget
	err := scanBudget(r.db.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &b)
	if err != nil {
		return nil, fmt.Errorf("get budget %s: %w", id, mapError(err))
	}
	return &b, nil
}

func (r *Budgets) List(ctx context.Context, tenantID string, f BudgetFilter, page Page) ([]model.Budget, bool, error) {
	q := newQuery(`SELECT ` + budgetColumns + ` FROM budgets`)
	q.add(" WHERE tenant_id = " + q.arg(tenantID))
	if f.Status != "" {
		q.add(" AND status = " + q.arg(f.Status))
	}
	if f.CustomerID != "" {
		q.add(" AND customer_id = " + q.arg(f.CustomerID))
	}
	if f.Search != "" {
		ph := q.arg("%" + f.Search + "%")
		q.add(fmt.Sprintf(" AND (code ILIKE %[1]s OR description ILIKE %[1]s)", ph))
	}
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := scanBudget(rows, &b); err != nil {
			return nil, false, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate budgets: %w", err)
	}
	budgets, more := trim(budgets, page.Limit)
	return budgets, more, nil
}

// Update writes the editable fields. The status column is only changed by
// UpdateStatus.
func (r *Budgets) Update(ctx context.Context, tenantID string, b *model.Budget) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE budgets SET customer_id = $1, due_date = $2, discount = $3, total = $4, description = $5, payment_terms = $6, updated_at = now()
		 WHERE tenant_id = $7 AND id = $8`,
		b.CustomerID, b.DueDate, b.Discount, b.Total, b.Description, b.PaymentTerms, tenantID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update budget %s: %w", b.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update budget %s: %w", b.ID, ErrNotFound)
	}
	return nil
}

// UpdateStatus moves the budget from one status to another. It fails with
// ErrStale when the stored status is no longer from.
func (r *Budgets) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.BudgetStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE budgets SET status = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3 AND status = $4`,
		to, tenantID, id, from,
	)
	if err != nil {
		return fmt.Errorf("update budget %s status: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update budget %s status: %w", id, ErrStale)
	}
	return nil
}

func (r *Budgets) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete budget %s: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete budget %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecalculateTotal sets the budget total to the sum of its non-cancelled
// services minus the budget discount.
func (r *Budgets) RecalculateTotal(ctx context.Context, tenantID, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE budgets b SET total = GREATEST(COALESCE((
		   SELECT sum(s.total) FROM services s
		   WHERE s.tenant_id = b.tenant_id AND s.budget_id = b.id AND s.status <> 'CANCELLED'), 0) - b.discount, 0),
		   updated_at = now()
		 WHERE b.tenant_id = $1 AND b.id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("recalculate budget %s total: %w", id, mapError(err))
	}
	return nil
}

func (r *Budgets) IsUniqueInTenant(ctx context.Context, tenantID, code, excludeID string) (bool, error) {
	return isUniqueInTenant(ctx, r.db, "budgets", "code", tenantID, code, excludeID)
}

func (r *Budgets) Count(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM budgets WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count budgets: %w", mapError(err))
	}
	return n, nil
}

func (r *Budgets) CountByStatus(ctx context.Context, tenantID string) (map[model.BudgetStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM budgets WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count budgets by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BudgetStatus]int)
	for rows.Next() {
		var status model.BudgetStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan budget count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget counts: %w", err)
	}
	return counts, nil
}
