package store

import (
	"context"
	"fmt"
)

// Delivery states of a notification.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// Deliveries records notification idempotency keys so that a redelivered
// event sends at most one message.
type Deliveries struct {
	db Querier
}

// Claim registers key for delivery and increments its attempt counter.
// It returns false when the key was already sent.
func (r *Deliveries) Claim(ctx context.Context, key, tenantID, eventType, recipient string) (bool, error) {
	var status string
	err := r.db.QueryRow(ctx,
		`INSERT INTO notification_deliveries (idempotency_key, tenant_id, event_type, recipient, status, attempts)
		 VALUES ($1, $2, $3, $4, 'pending', 1)
		 ON CONFLICT (idempotency_key) DO UPDATE
		   SET attempts = notification_deliveries.attempts + 1, updated_at = now()
		 RETURNING status`,
		key, tenantID, eventType, recipient,
	).Scan(&status)
	if err != nil {
		return false, fmt.Errorf("claim delivery %s: %w", key, mapError(err))
	}
	return status != DeliverySent, nil
}

func (r *Deliveries) MarkSent(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE notification_deliveries SET status = 'sent', last_error = NULL, sent_at = now(), updated_at = now()
		 WHERE idempotency_key = $1`, key,
	); err != nil {
		return fmt.Errorf("mark delivery %s sent: %w", key, mapError(err))
	}
	return nil
}

// MarkFailed records the final failure. A sent delivery is left untouched.
func (r *Deliveries) MarkFailed(ctx context.Context, key, reason string) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE notification_deliveries SET status = 'failed', last_error = $2, updated_at = now()
		 WHERE idempotency_key = $1 AND status <> 'sent'`, key, reason,
	); err != nil {
		return fmt.Errorf("mark delivery %s failed: %w", key, mapError(err))
	}
	return nil
}
