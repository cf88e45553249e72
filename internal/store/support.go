package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

const supportColumns = `id, COALESCE(tenant_id::text, ''), first_name, last_name, email, subject, message, status, created_at, updated_at`

func scanSupport(row interface{ Scan(...any) error }, t *model.SupportTicket) error {
	return row.Scan(&t.ID, &t.TenantID, &t.FirstName, &t.LastName, &t.Email, &t.Subject, &t.Message,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// SupportTickets stores help requests. Tickets sent before login have no
// tenant and are only visible to the platform team.
type SupportTickets struct {
	db Querier
}

func (r *SupportTickets) Insert(ctx context.Context, tenantID string, t *model.SupportTicket) error {
	t.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO supports (id, tenant_id, first_name, last_name, email, subject, message, status)
		 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		t.ID, tenantID, t.FirstName, t.LastName, t.Email, t.Subject, t.Message, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert support ticket: %w", mapError(err))
	}
	return nil
}

func (r *SupportTickets) Get(ctx context.Context, tenantID, id string) (*model.SupportTicket, error) {
	var t model.SupportTicket
	err := scanSupport(r.db.QueryRow(ctx,
		`SELECT `+supportColumns+` FROM supports WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &t)
	if err != nil {
		return nil, fmt.Errorf("get support ticket %s: %w", id, mapError(err))
	}
	return &t, nil
}

func (r *SupportTickets) List(ctx context.Context, tenantID, status string, page Page) ([]model.SupportTicket, bool, error) {
	q := newQuery(`SELECT ` + supportColumns + ` FROM supports`)
	q.add(" WHERE tenant_id = " + q.arg(tenantID))
	if status != "" {
		q.add(" AND status = " + q.arg(status))
	}
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list support tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.SupportTicket
	for rows.Next() {
		var t model.SupportTicket
		if err := scanSupport(rows, &t); err != nil {
			return nil, false, fmt.Errorf("scan support ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate support tickets: %w", err)
	}
	tickets, more := trim(tickets, page.Limit)
	return tickets, more, nil
}

func (r *SupportTickets) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.SupportStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE supports SET status = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3 AND status = $4`,
		to, tenantID, id, from,
	)
	if err != nil {
		return fmt.Errorf("update support ticket %s status: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update support ticket %s status: %w", id, ErrStale)
	}
	return nil
}
