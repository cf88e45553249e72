package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

// ActivityFilter narrows Activities.List.
type ActivityFilter struct {
	EntityType string
	EntityID   string
	ActionType string
	UserID     string
}

// Activities is append-only. There is no update or delete, and the table
// trigger rejects both.
type Activities struct {
	db Querier
}

func (r *Activities) Insert(ctx context.Context, tenantID string, a *model.ActivityLog) error {
	a.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO activities (id, tenant_id, user_id, action_type, entity_type, entity_id, description, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		a.ID, tenantID, a.UserID, a.ActionType, a.EntityType, a.EntityID, a.Description, a.Metadata,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", mapError(err))
	}
	return nil
}

func (r *Activities) List(ctx context.Context, tenantID string, f ActivityFilter, page Page) ([]model.ActivityLog, bool, error) {
	q := newQuery(`SELECT id, tenant_id, user_id, action_type, entity_type, entity_id, description, metadata, created_at FROM activities`)
	q.add(" WHERE tenant_id = " + q.arg(tenantID))
	if f.EntityType != "" {
		q.add(" AND entity_type = " + q.arg(f.EntityType))
	}
	if f.EntityID != "" {
		q.add(" AND entity_id = " + q.arg(f.EntityID))
	}
	if f.ActionType != "" {
		q.add(" AND action_type = " + q.arg(f.ActionType))
	}
	if f.UserID != "" {
		q.add(" AND user_id = " + q.arg(f.UserID))
	}
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var logs []model.ActivityLog
	for rows.Next() {
		var a model.ActivityLog
		if err := rows.Scan(&a.ID, &a.TenantID, &a.UserID, &a.ActionType, &a.EntityType, &a.EntityID,
			&a.Description, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan activity: %w", err)
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate activities: %w", err)
	}
	logs, more := trim(logs, page.Limit)
	return logs, more, nil
}
