package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/edvin/easybudget/internal/core"
)

func sweepCtx(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	})
}

// MarkInvoicesOverdueWorkflow runs daily and moves pending invoices past
// their due date to OVERDUE.
func MarkInvoicesOverdueWorkflow(ctx workflow.Context) error {
	var n int64
	if err := workflow.ExecuteActivity(sweepCtx(ctx), "MarkInvoicesOverdue").Get(ctx, &n); err != nil {
		return fmt.Errorf("mark invoices overdue: %w", err)
	}
	workflow.GetLogger(ctx).Info("overdue sweep done", "invoices", n)
	return nil
}

// ExpireDueRecordsWorkflow runs daily and expires pending budgets and
// active subscriptions whose dates have passed.
func ExpireDueRecordsWorkflow(ctx workflow.Context) error {
	var res core.SweepResult
	if err := workflow.ExecuteActivity(sweepCtx(ctx), "ExpireDueRecords").Get(ctx, &res); err != nil {
		return fmt.Errorf("expire due records: %w", err)
	}
	workflow.GetLogger(ctx).Info("expiry sweep done",
		"budgets", res.ExpiredBudgets,
		"subscriptions", res.ExpiredSubscriptions)
	return nil
}
