package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

const planColumns = `id, name, slug, description, price, active, max_budgets, max_clients, features, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }, p *model.Plan) error {
	return row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Active,
		&p.MaxBudgets, &p.MaxClients, &p.Features, &p.CreatedAt, &p.UpdatedAt)
}

// Plans is the global plan catalog.
type Plans struct {
	db Querier
}

func (r *Plans) Insert(ctx context.Context, p *model.Plan) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO plans (id, name, slug, description, price, active, max_budgets, max_clients, features)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Active, p.MaxBudgets, p.MaxClients, p.Features,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert plan: %w", mapError(err))
	}
	return nil
}

func (r *Plans) Get(ctx context.Context, id string) (*model.Plan, error) {
	var p model.Plan
	if err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id), &p); err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, mapError(err))
	}
	return &p, nil
}

func (r *Plans) GetBySlug(ctx context.Context, slug string) (*model.Plan, error) {
	var p model.Plan
	if err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE slug = $1`, slug), &p); err != nil {
		return nil, fmt.Errorf("get plan %s: %w", slug, mapError(err))
	}
	return &p, nil
}

// List returns plans ordered by price. activeOnly hides retired plans.
func (r *Plans) List(ctx context.Context, activeOnly bool) ([]model.Plan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE ($1 = false OR active) ORDER BY price, name`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := scanPlan(rows, &p); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

func (r *Plans) Update(ctx context.Context, p *model.Plan) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE plans SET name = $1, slug = $2, description = $3, price = $4, active = $5,
		   max_budgets = $6, max_clients = $7, features = $8, updated_at = now()
		 WHERE id = $9`,
		p.Name, p.Slug, p.Description, p.Price, p.Active, p.MaxBudgets, p.MaxClients, p.Features, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update plan %s: %w", p.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update plan %s: %w", p.ID, ErrNotFound)
	}
	return nil
}
