package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/edvin/easybudget/internal/activity"
	"github.com/edvin/easybudget/internal/model"
)

type NotificationWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *NotificationWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	registerActivities(s.env)
}

func (s *NotificationWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func notification() model.Notification {
	return model.BudgetStatusChanged{
		TenantID:      "t1",
		BudgetID:      "b1",
		BudgetCode:    "ORC-20260114-K7Q2XM",
		OldStatus:     model.BudgetPending,
		NewStatus:     model.BudgetApproved,
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
	}.Notification()
}

func (s *NotificationWorkflowTestSuite) TestSuccess() {
	n := notification()
	s.env.OnActivity("SendNotification", mock.Anything, n).Return(nil).Once()

	s.env.ExecuteWorkflow(NotificationWorkflow, n)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *NotificationWorkflowTestSuite) TestRetriesThenRecordsFailure() {
	n := notification()
	s.env.OnActivity("SendNotification", mock.Anything, n).Return(errors.New("mail api down"))
	s.env.OnActivity("MarkNotificationFailed", mock.Anything, mock.MatchedBy(func(p activity.MarkNotificationFailedParams) bool {
		return p.IdempotencyKey == "budget-status-b1-PENDING-APPROVED" &&
			p.Event == model.EventBudgetStatusChanged &&
			p.Reason != ""
	})).Return(nil).Once()

	s.env.ExecuteWorkflow(NotificationWorkflow, n)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *NotificationWorkflowTestSuite) TestNonRetryableFailsFast() {
	n := notification()
	s.env.OnActivity("SendNotification", mock.Anything, n).
		Return(temporal.NewNonRetryableApplicationError("rejected", "MAIL_REJECTED", nil)).Once()
	s.env.OnActivity("MarkNotificationFailed", mock.Anything, mock.Anything).Return(nil).Once()

	s.env.ExecuteWorkflow(NotificationWorkflow, n)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *NotificationWorkflowTestSuite) TestMarkFailedErrorIsSwallowed() {
	n := notification()
	s.env.OnActivity("SendNotification", mock.Anything, n).
		Return(temporal.NewNonRetryableApplicationError("rejected", "MAIL_REJECTED", nil))
	s.env.OnActivity("MarkNotificationFailed", mock.Anything, mock.Anything).Return(errors.New("db down"))

	s.env.ExecuteWorkflow(NotificationWorkflow, n)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func TestNotificationWorkflow(t *testing.T) {
	suite.Run(t, new(NotificationWorkflowTestSuite))
}
