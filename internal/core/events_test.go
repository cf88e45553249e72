package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"
	temporalmocks "go.temporal.io/sdk/mocks"

	"github.com/edvin/easybudget/internal/model"
)

func budgetEvent() model.BudgetStatusChanged {
	return model.BudgetStatusChanged{
		TenantID:      "t1",
		BudgetID:      "b1",
		BudgetCode:    "ORC-1",
		OldStatus:     model.BudgetPending,
		NewStatus:     model.BudgetApproved,
		CustomerEmail: "ana@example.com",
	}
}

func TestTemporalDispatcher_StartsWorkflowPerEvent(t *testing.T) {
	tc := &temporalmocks.Client{}
	d := NewTemporalDispatcher(tc, "easybudget")
	ctx := context.Background()
	ev := budgetEvent()

	wfRun := &temporalmocks.WorkflowRun{}
	wfRun.On("GetID").Return("notify-" + ev.IdempotencyKey())
	tc.On("ExecuteWorkflow", ctx, mock.MatchedBy(func(o temporalclient.StartWorkflowOptions) bool {
		return o.ID == "notify-budget-status-b1-PENDING-APPROVED" &&
			o.TaskQueue == "easybudget" &&
			o.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
	}), NotificationWorkflowName, mock.MatchedBy(func(n model.Notification) bool {
		return n.Recipient == "ana@example.com" && n.Template == model.TemplateBudgetStatus
	})).Return(wfRun, nil)

	d.Dispatch(ctx, ev)
	tc.AssertExpectations(t)
	wfRun.AssertExpectations(t)
}

func TestTemporalDispatcher_DuplicateIsIgnored(t *testing.T) {
	tc := &temporalmocks.Client{}
	d := NewTemporalDispatcher(tc, "easybudget")
	ctx := context.Background()

	tc.On("ExecuteWorkflow", ctx, mock.Anything, NotificationWorkflowName, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("started", "req", "run"))

	assert.NotPanics(t, func() { d.Dispatch(ctx, budgetEvent()) })
	tc.AssertNumberOfCalls(t, "ExecuteWorkflow", 1)
}

func TestTemporalDispatcher_ErrorIsSwallowed(t *testing.T) {
	tc := &temporalmocks.Client{}
	d := NewTemporalDispatcher(tc, "easybudget")
	ctx := context.Background()

	tc.On("ExecuteWorkflow", ctx, mock.Anything, NotificationWorkflowName, mock.Anything).
		Return(nil, errors.New("temporal down"))

	assert.NotPanics(t, func() { d.Dispatch(ctx, budgetEvent()) })
	tc.AssertExpectations(t)
}

func TestTemporalDispatcher_SkipsEventsWithoutRecipient(t *testing.T) {
	tc := &temporalmocks.Client{}
	d := NewTemporalDispatcher(tc, "easybudget")

	ev := budgetEvent()
	ev.CustomerEmail = ""
	d.Dispatch(context.Background(), ev)
	tc.AssertNotCalled(t, "ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
