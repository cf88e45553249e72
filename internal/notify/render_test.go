package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/model"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("no-reply@easybudget.test")
	require.NoError(t, err)
	return r
}

func TestRender_BudgetStatus(t *testing.T) {
	r := newTestRenderer(t)
	n := model.BudgetStatusChanged{
		TenantID:      "t1",
		BudgetID:      "b1",
		BudgetCode:    "ORC-20260114-K7Q2XM",
		OldStatus:     model.BudgetPending,
		NewStatus:     model.BudgetApproved,
		Total:         "1500.00",
		CustomerName:  "Ana <Silva>",
		CustomerEmail: "ana@example.com",
		ProviderName:  "Acme",
	}.Notification()

	msg, err := r.Render(n)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "no-reply@easybudget.test", msg.From)
	assert.Equal(t, "Confirmed: budget ORC-20260114-K7Q2XM", msg.Subject)
	assert.Equal(t, "budget-status-b1-PENDING-APPROVED", msg.IdempotencyKey)
	assert.Contains(t, msg.HTML, "ORC-20260114-K7Q2XM")
	assert.Contains(t, msg.HTML, "1500.00")
	assert.Contains(t, msg.HTML, "Ana &lt;Silva&gt;")
	assert.NotContains(t, msg.HTML, "Comment:")
}

func TestRender_Welcome(t *testing.T) {
	r := newTestRenderer(t)
	msg, err := r.Render(model.UserRegistered{TenantID: "t1", UserID: "u1", Email: "joe@example.com", Name: "Joe", Company: "Joe Ltd"}.Notification())
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Easy Budget", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Joe")
	assert.Contains(t, msg.HTML, "Joe Ltd")
}

func TestRender_SupportTicketGoesToSupport(t *testing.T) {
	r := newTestRenderer(t)
	msg, err := r.Render(model.SupportTicketCreated{
		TicketID: "s1", Name: "Joe", Email: "joe@example.com", Subject: "Login", Message: "Cannot log in",
		SupportEmail: "help@easybudget.test",
	}.Notification())
	require.NoError(t, err)
	assert.Equal(t, "help@easybudget.test", msg.To)
	assert.Equal(t, "Support ticket: Login", msg.Subject)
	assert.Contains(t, msg.HTML, "Cannot log in")
}

func TestRender_Errors(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render(model.Notification{IdempotencyKey: "k", Template: model.TemplateWelcome})
	assert.ErrorContains(t, err, "no recipient")

	_, err = r.Render(model.Notification{IdempotencyKey: "k", Recipient: "a@b.c", Template: "nope"})
	assert.ErrorContains(t, err, "unknown mail template")
}

func TestBudgetSubjectPrefix(t *testing.T) {
	tests := map[string]string{
		"APPROVED":  "Confirmed",
		"CANCELLED": "Cancelled",
		"REJECTED":  "Cancelled",
		"COMPLETED": "Completed",
		"PENDING":   "Pending",
		"EXPIRED":   "Update",
		"":          "Update",
	}
	for status, want := range tests {
		assert.Equal(t, want, budgetSubjectPrefix(status), status)
	}
}
