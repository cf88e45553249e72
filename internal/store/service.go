package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

const serviceColumns = `id, tenant_id, budget_id, code, status, description, discount, total, due_date, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }, s *model.ServiceOrder) error {
	return row.Scan(&s.ID, &s.TenantID, &s.BudgetID, &s.Code, &s.Status, &s.Description,
		&s.Discount, &s.Total, &s.DueDate, &s.CreatedAt, &s.UpdatedAt)
}

// Services stores service orders (table services).
type Services struct {
	db Querier
}

func (r *Services) Insert(ctx context.Context, tenantID string, s *model.ServiceOrder) error {
	s.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO services (id, tenant_id, budget_id, code, status, description, discount, total, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		s.ID, tenantID, s.BudgetID, s.Code, s.Status, s.Description, s.Discount, s.Total, s.DueDate,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", mapError(err))
	}
	return nil
}

func (r *Services) Get(ctx context.Context, tenantID, id string) (*model.ServiceOrder, error) {
	var s model.ServiceOrder
	err := scanService(r.db.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &s)
	if err != nil {
		return nil, fmt.Errorf("get service %s: %w", id, mapError(err))
	}
	return &s, nil
}

func (r *Services) ListByBudget(ctx context.Context, tenantID, budgetID string) ([]model.ServiceOrder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE tenant_id = $1 AND budget_id = $2 ORDER BY created_at, id`,
		tenantID, budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("list services for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	var services []model.ServiceOrder
	for rows.Next() {
		var s model.ServiceOrder
		if err := scanService(rows, &s); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

func (r *Services) Update(ctx context.Context, tenantID string, s *model.ServiceOrder) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE services SET description = $1, discount = $2, total = $3, due_date = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		s.Description, s.Discount, s.Total, s.DueDate, tenantID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update service %s: %w", s.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update service %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// UpdateStatus moves the service between statuses, failing with ErrStale
// if the stored status is no longer from.
func (r *Services) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.ServiceStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE services SET status = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3 AND status = $4`,
		to, tenantID, id, from,
	)
	if err != nil {
		return fmt.Errorf("update service %s status: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update service %s status: %w", id, ErrStale)
	}
	return nil
}

func (r *Services) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete service %s: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete service %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByBudget removes every service of a budget.
func (r *Services) DeleteByBudget(ctx context.Context, tenantID, budgetID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM services WHERE tenant_id = $1 AND budget_id = $2`, tenantID, budgetID); err != nil {
		return fmt.Errorf("delete services for budget %s: %w", budgetID, mapError(err))
	}
	return nil
}

func (r *Services) CountByStatus(ctx context.Context, tenantID string) (map[model.ServiceStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM services WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count services by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ServiceStatus]int)
	for rows.Next() {
		var status model.ServiceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan service count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service counts: %w", err)
	}
	return counts, nil
}
