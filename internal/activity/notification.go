// Package activity contains the Temporal activities run by the worker.
package activity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/easybudget/internal/metrics"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/notify"
	"github.com/edvin/easybudget/internal/store"
)

// Notifications contains the activities that deliver notification mail.
type Notifications struct {
	deliveries *store.Deliveries
	renderer   *notify.Renderer
	mailer     notify.Mailer
	logger     zerolog.Logger
}

// NewNotifications creates a new Notifications activity struct.
func NewNotifications(db store.Querier, renderer *notify.Renderer, mailer notify.Mailer, logger zerolog.Logger) *Notifications {
	return &Notifications{
		deliveries: store.NewGlobal(db).Deliveries,
		renderer:   renderer,
		mailer:     mailer,
		logger:     logger,
	}
}

// SendNotification renders and sends the mail for n. A key that was
// already sent is skipped, so a retried or redelivered event sends at most
// one message.
func (a *Notifications) SendNotification(ctx context.Context, n model.Notification) error {
	log := a.logger.With().
		Str("event", string(n.Event)).
		Str("idempotency_key", n.IdempotencyKey).
		Logger()
	ctx = log.WithContext(ctx)

	msg, err := a.renderer.Render(n)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("render notification", "RENDER_ERROR", err)
	}

	claimed, err := a.deliveries.Claim(ctx, n.IdempotencyKey, n.TenantID, string(n.Event), n.Recipient)
	if err != nil {
		return err
	}
	if !claimed {
		metrics.Notifications.WithLabelValues(string(n.Event), "skipped").Inc()
		log.Info().Msg("notification already sent, skipping")
		return nil
	}

	if err := a.mailer.Send(ctx, msg); err != nil {
		if notify.IsPermanent(err) {
			return temporal.NewNonRetryableApplicationError("send notification", "MAIL_REJECTED", err)
		}
		metrics.Notifications.WithLabelValues(string(n.Event), "retry").Inc()
		return fmt.Errorf("send notification %s: %w", n.IdempotencyKey, err)
	}

	if err := a.deliveries.MarkSent(ctx, n.IdempotencyKey); err != nil {
		// The mail API deduplicates on the idempotency key, so a retry after
		// this point does not send twice.
		return err
	}
	metrics.Notifications.WithLabelValues(string(n.Event), "sent").Inc()
	log.Info().Str("to", n.Recipient).Msg("notification sent")
	return nil
}

// MarkNotificationFailedParams holds parameters for MarkNotificationFailed.
type MarkNotificationFailedParams struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Event          model.EventType `json:"event"`
	Reason         string          `json:"reason"`
}

// MarkNotificationFailed records that a notification exhausted its
// attempts.
func (a *Notifications) MarkNotificationFailed(ctx context.Context, params MarkNotificationFailedParams) error {
	if err := a.deliveries.MarkFailed(ctx, params.IdempotencyKey, params.Reason); err != nil {
		return err
	}
	metrics.Notifications.WithLabelValues(string(params.Event), "failed").Inc()
	return nil
}
