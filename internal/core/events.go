package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/easybudget/internal/metrics"
	"github.com/edvin/easybudget/internal/model"
)

// NotificationWorkflowName is the registered name of the workflow that
// delivers a notification.
const NotificationWorkflowName = "NotificationWorkflow"

// Dispatcher publishes domain events. Dispatch never fails the caller:
// errors are logged and counted.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.Event)
}

// TemporalDispatcher starts one NotificationWorkflow per event. The
// workflow id is derived from the event's idempotency key, so a repeated
// dispatch of the same fact is rejected by Temporal.
type TemporalDispatcher struct {
	tc        temporalclient.Client
	taskQueue string
}

func NewTemporalDispatcher(tc temporalclient.Client, taskQueue string) *TemporalDispatcher {
	return &TemporalDispatcher{tc: tc, taskQueue: taskQueue}
}

func (d *TemporalDispatcher) Dispatch(ctx context.Context, ev model.Event) {
	log := zerolog.Ctx(ctx).With().
		Str("event", string(ev.Type())).
		Str("idempotency_key", ev.IdempotencyKey()).
		Logger()

	n := ev.Notification()
	if n.Recipient == "" {
		log.Debug().Msg("event has no recipient, nothing to notify")
		return
	}

	run, err := d.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:                                       "notify-" + ev.IdempotencyKey(),
		TaskQueue:                                d.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, NotificationWorkflowName, n)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			log.Debug().Msg("notification already dispatched")
			return
		}
		metrics.DispatchErrors.WithLabelValues(string(ev.Type())).Inc()
		log.Error().Err(err).Msg("failed to dispatch notification")
		return
	}
	log.Debug().Str("workflow_id", run.GetID()).Msg("notification dispatched")
}

// LogDispatcher only logs events. It is used when no workflow engine is
// configured, e.g. in tests and local tools.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, ev model.Event) {
	zerolog.Ctx(ctx).Info().
		Str("event", string(ev.Type())).
		Str("idempotency_key", ev.IdempotencyKey()).
		Msg("event dispatched")
}
