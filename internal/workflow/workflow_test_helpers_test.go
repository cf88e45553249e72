package workflow

import (
	"go.temporal.io/sdk/testsuite"

	"github.com/edvin/easybudget/internal/activity"
)

// registerActivities registers the activity structs so the test
// environment knows their parameter and result types. The activities
// themselves are mocked with OnActivity.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.Notifications{})
	env.RegisterActivity(&activity.Billing{})
}
