// Package workflow contains the Temporal workflows run by the worker.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/easybudget/internal/activity"
	"github.com/edvin/easybudget/internal/model"
)

// Notification delivery policy.
const (
	NotificationMaxAttempts     = 3
	NotificationInitialInterval = 30 * time.Second
)

// NotificationWorkflow delivers one notification. Delivery is retried with
// exponential backoff; once the attempts are exhausted the failure is
// logged and recorded and the workflow completes without error, so a lost
// mail never fails the operation that produced it.
func NotificationWorkflow(ctx workflow.Context, n model.Notification) error {
	logger := workflow.GetLogger(ctx)

	sendCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    NotificationMaxAttempts,
			InitialInterval:    NotificationInitialInterval,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Minute,
		},
	})

	err := workflow.ExecuteActivity(sendCtx, "SendNotification", n).Get(ctx, nil)
	if err == nil {
		return nil
	}

	logger.Error("final failure",
		"severity", "critical",
		"event", string(n.Event),
		"idempotency_key", n.IdempotencyKey,
		"recipient", n.Recipient,
		"error", err)

	markCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
	if markErr := workflow.ExecuteActivity(markCtx, "MarkNotificationFailed", activity.MarkNotificationFailedParams{
		IdempotencyKey: n.IdempotencyKey,
		Event:          n.Event,
		Reason:         err.Error(),
	}).Get(ctx, nil); markErr != nil {
		logger.Warn("failed to record notification failure",
			"idempotency_key", n.IdempotencyKey, "error", markErr)
	}
	return nil
}
