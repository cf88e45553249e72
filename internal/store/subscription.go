package store

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/easybudget/internal/model"
)

const subscriptionColumns = `id, tenant_id, provider_id, plan_id, status, transaction_amount, start_date, end_date, payment_method, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }, s *model.PlanSubscription) error {
	return row.Scan(&s.ID, &s.TenantID, &s.ProviderID, &s.PlanID, &s.Status, &s.TransactionAmount,
		&s.StartDate, &s.EndDate, &s.PaymentMethod, &s.CreatedAt, &s.UpdatedAt)
}

// Subscriptions stores plan subscriptions (table plan_subscriptions).
type Subscriptions struct {
	db Querier
}

func (r *Subscriptions) Insert(ctx context.Context, tenantID string, s *model.PlanSubscription) error {
	s.TenantID = tenantID
	err := r.db.QueryRow(ctx,
		`INSERT INTO plan_subscriptions (id, tenant_id, provider_id, plan_id, status, transaction_amount, start_date, end_date, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		s.ID, tenantID, s.ProviderID, s.PlanID, s.Status, s.TransactionAmount, s.StartDate, s.EndDate, s.PaymentMethod,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", mapError(err))
	}
	return nil
}

func (r *Subscriptions) Get(ctx context.Context, tenantID, id string) (*model.PlanSubscription, error) {
	var s model.PlanSubscription
	err := scanSubscription(r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM plan_subscriptions WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	), &s)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, mapError(err))
	}
	return &s, nil
}

// Current returns the newest pending or active subscription of the tenant.
func (r *Subscriptions) Current(ctx context.Context, tenantID string) (*model.PlanSubscription, error) {
	var s model.PlanSubscription
	err := scanSubscription(r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM plan_subscriptions
		 WHERE tenant_id = $1 AND status IN ('pending', 'active')
		 ORDER BY created_at DESC LIMIT 1`, tenantID,
	), &s)
	if err != nil {
		return nil, fmt.Errorf("get current subscription: %w", mapError(err))
	}
	return &s, nil
}

func (r *Subscriptions) History(ctx context.Context, tenantID string, page Page) ([]model.PlanSubscription, bool, error) {
	q := newQuery(`SELECT ` + subscriptionColumns + ` FROM plan_subscriptions`)
	q.add(" WHERE tenant_id = " + q.arg(tenantID))
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PlanSubscription
	for rows.Next() {
		var s model.PlanSubscription
		if err := scanSubscription(rows, &s); err != nil {
			return nil, false, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate subscriptions: %w", err)
	}
	subs, more := trim(subs, page.Limit)
	return subs, more, nil
}

// UpdateStatus moves a subscription between statuses. Final statuses stamp
// end_date when it is not set yet.
func (r *Subscriptions) UpdateStatus(ctx context.Context, tenantID, id string, from, to model.SubscriptionStatus, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE plan_subscriptions SET status = $1,
		   end_date = CASE WHEN $2 THEN COALESCE(end_date, $3) ELSE end_date END,
		   updated_at = now()
		 WHERE tenant_id = $4 AND id = $5 AND status = $6`,
		to, to.IsFinal(), at, tenantID, id, from,
	)
	if err != nil {
		return fmt.Errorf("update subscription %s status: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update subscription %s status: %w", id, ErrStale)
	}
	return nil
}
