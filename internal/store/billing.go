package store

import (
	"context"
	"fmt"
	"time"
)

// Billing runs cross-tenant status sweeps for scheduled jobs.
type Billing struct {
	db Querier
}

// MarkOverdueInvoices moves pending invoices whose due date is before now
// to OVERDUE and returns how many changed.
func (r *Billing) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE invoices SET status = 'OVERDUE', updated_at = now()
		 WHERE status = 'PENDING' AND due_date IS NOT NULL AND due_date < $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", mapError(err))
	}
	return tag.RowsAffected(), nil
}

// ExpireBudgets moves pending budgets past their due date to EXPIRED.
func (r *Billing) ExpireBudgets(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE budgets SET status = 'EXPIRED', updated_at = now()
		 WHERE status = 'PENDING' AND due_date IS NOT NULL AND due_date < $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("expire budgets: %w", mapError(err))
	}
	return tag.RowsAffected(), nil
}

// ExpireSubscriptions moves active subscriptions whose end date has passed
// to expired.
func (r *Billing) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE plan_subscriptions SET status = 'expired', updated_at = now()
		 WHERE status = 'active' AND end_date IS NOT NULL AND end_date < $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", mapError(err))
	}
	return tag.RowsAffected(), nil
}
