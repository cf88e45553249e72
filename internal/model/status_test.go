package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions_AllowsAndNext(t *testing.T) {
	tr := Transitions[string]{"a": {"b", "c"}, "b": {}}

	assert.True(t, tr.Allows("a", "b"))
	assert.False(t, tr.Allows("b", "a"))
	assert.False(t, tr.Allows("missing", "a"))
	assert.Equal(t, []string{"b", "c"}, tr.Next("a"))
	assert.True(t, tr.Terminal("b"))
	assert.True(t, tr.Terminal("missing"))
}

func TestTransitions_NextReturnsCopy(t *testing.T) {
	tr := Transitions[string]{"a": {"b"}}
	next := tr.Next("a")
	next[0] = "z"
	assert.Equal(t, []string{"b"}, tr["a"])
}

func TestBudgetStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BudgetStatus
		allowed  bool
	}{
		{BudgetDraft, BudgetPending, true},
		{BudgetDraft, BudgetCancelled, true},
		{BudgetDraft, BudgetApproved, false},
		{BudgetPending, BudgetApproved, true},
		{BudgetPending, BudgetRejected, true},
		{BudgetPending, BudgetExpired, true},
		{BudgetPending, BudgetDraft, false},
		{BudgetApproved, BudgetCompleted, true},
		{BudgetApproved, BudgetPending, false},
		{BudgetRejected, BudgetDraft, false},
		{BudgetCancelled, BudgetDraft, false},
		{BudgetExpired, BudgetDraft, false},
		{BudgetCompleted, BudgetCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBudgetStatus_TerminalStates(t *testing.T) {
	for _, s := range []BudgetStatus{BudgetRejected, BudgetCancelled, BudgetCompleted, BudgetExpired} {
		assert.Empty(t, s.AllowedTransitions(), s)
		assert.True(t, s.IsFinal(), s)
		assert.False(t, s.IsEditable(), s)
	}
}

func TestBudgetStatus_Classification(t *testing.T) {
	assert.True(t, BudgetDraft.IsActive())
	assert.True(t, BudgetPending.IsActive())
	assert.False(t, BudgetApproved.IsActive())
	assert.True(t, BudgetDraft.IsEditable())
	assert.False(t, BudgetPending.IsEditable())
	assert.False(t, BudgetStatus("BOGUS").IsFinal())
}

func TestParseBudgetStatus(t *testing.T) {
	s, err := ParseBudgetStatus(" approved ")
	require.NoError(t, err)
	assert.Equal(t, BudgetApproved, s)

	_, err = ParseBudgetStatus("archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown budget status")
}

func TestBudgetStatus_NextStatus(t *testing.T) {
	next, ok := BudgetDraft.NextStatus()
	assert.True(t, ok)
	assert.Equal(t, BudgetPending, next)

	_, ok = BudgetCompleted.NextStatus()
	assert.False(t, ok)
}

func TestBudgetStatus_Metadata(t *testing.T) {
	assert.Equal(t, "#28A745", BudgetApproved.Color())
	assert.Equal(t, "clock", BudgetPending.Icon())
	assert.Equal(t, 1, BudgetPending.Priority())

	info := BudgetDraft.Info()
	assert.Equal(t, "DRAFT", info.Value)
	assert.True(t, info.Editable)
	assert.Equal(t, []string{"PENDING", "CANCELLED"}, info.Next)
}

func TestBudgetStatusCatalog_OrderedByPriority(t *testing.T) {
	catalog := BudgetStatusCatalog()
	require.Len(t, catalog, len(BudgetStatuses))
	assert.Equal(t, "PENDING", catalog[0].Value)
	assert.Equal(t, "DRAFT", catalog[1].Value)
	assert.Equal(t, "EXPIRED", catalog[len(catalog)-1].Value)
}

func TestCalculateBudgetMetrics(t *testing.T) {
	m := CalculateBudgetMetrics(map[BudgetStatus]int{
		BudgetDraft:    1,
		BudgetPending:  2,
		BudgetApproved: 3,
		BudgetRejected: 1,
	})
	assert.Equal(t, 7, m.Total)
	assert.Equal(t, 3, m.Active)
	assert.Equal(t, 4, m.Finished)
	assert.Equal(t, 3, m.Approved)
	assert.Equal(t, 2, m.Pending)
	assert.Equal(t, 42.9, m.ActivePercentage)
	assert.Equal(t, 42.9, m.ConversionRate)
	assert.Equal(t, 14.3, m.RejectedPercentage)
}

func TestCalculateBudgetMetrics_Empty(t *testing.T) {
	m := CalculateBudgetMetrics(nil)
	assert.Zero(t, m.Total)
	assert.Zero(t, m.ConversionRate)
}

func TestServiceStatus_Transitions(t *testing.T) {
	assert.True(t, ServiceDraft.CanTransitionTo(ServicePending))
	assert.True(t, ServiceScheduling.CanTransitionTo(ServicePending))
	assert.True(t, ServiceOnHold.CanTransitionTo(ServiceInProgress))
	assert.True(t, ServiceInProgress.CanTransitionTo(ServicePartial))
	assert.False(t, ServiceDraft.CanTransitionTo(ServiceInProgress))
	assert.False(t, ServiceCompleted.CanTransitionTo(ServiceInProgress))
}

func TestServiceStatus_Classification(t *testing.T) {
	for _, s := range []ServiceStatus{ServiceCompleted, ServicePartial, ServiceCancelled, ServiceNotPerformed, ServiceExpired} {
		assert.True(t, s.IsFinal(), s)
		assert.False(t, s.IsActive(), s)
	}
	assert.True(t, ServiceScheduled.IsExecutable())
	assert.True(t, ServiceInProgress.IsExecutable())
	assert.False(t, ServicePreparing.IsExecutable())
	assert.True(t, ServicePending.IsEditable())
	assert.False(t, ServiceScheduled.IsEditable())
	assert.Equal(t, "bi-gear", ServiceInProgress.Icon())
	assert.Equal(t, 12, ServiceExpired.Priority())
}

func TestServiceStatusCatalog(t *testing.T) {
	catalog := ServiceStatusCatalog()
	require.Len(t, catalog, 12)
	assert.Equal(t, "DRAFT", catalog[0].Value)
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	assert.True(t, InvoicePending.CanTransitionTo(InvoiceOverdue))
	assert.True(t, InvoiceOverdue.CanTransitionTo(InvoicePaid))
	assert.False(t, InvoiceOverdue.CanTransitionTo(InvoicePending))
	assert.False(t, InvoicePaid.CanTransitionTo(InvoiceCancelled))
	assert.True(t, InvoicePaid.IsFinal())
	assert.False(t, InvoiceOverdue.IsFinal())
	assert.Equal(t, "OVERDUE", InvoiceStatusCatalog()[0].Value)
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, s)

	_, err = ParseInvoiceStatus("refunded")
	require.Error(t, err)
}

func TestCalculateInvoiceMetrics(t *testing.T) {
	m := CalculateInvoiceMetrics(map[InvoiceStatus]int{
		InvoicePaid:    1,
		InvoicePending: 2,
	})
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 33.3, m.PaidPercentage)
	assert.Equal(t, 66.7, m.PendingPercentage)
}

func TestSubscriptionStatus(t *testing.T) {
	assert.True(t, SubscriptionPending.CanTransitionTo(SubscriptionActive))
	assert.True(t, SubscriptionActive.CanTransitionTo(SubscriptionExpired))
	assert.False(t, SubscriptionCancelled.CanTransitionTo(SubscriptionActive))
	assert.True(t, SubscriptionExpired.IsFinal())
	assert.False(t, SubscriptionStatus("paused").IsValid())
}

func TestSupportStatus(t *testing.T) {
	s, err := ParseSupportStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, SupportInProgress, s)
	assert.True(t, SupportResolved.CanTransitionTo(SupportInProgress))
	assert.False(t, SupportClosed.CanTransitionTo(SupportOpen))
}
