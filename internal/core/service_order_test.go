package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
)

func serviceRow(id, tenantID, budgetID string, status model.ServiceStatus) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = tenantID
		*(dest[2].(*string)) = budgetID
		*(dest[3].(*string)) = "SRV-20260101-0001"
		*(dest[4].(*model.ServiceStatus)) = status
		*(dest[7].(*decimal.Decimal)) = decimal.RequireFromString("80.00")
		return nil
	}}
}

func TestServiceOrderDelete_BudgetNoLongerEditable(t *testing.T) {
	db := &mockDB{}
	ctx := scoped("t1")

	db.On("QueryRow", mock.Anything, sqlContains("FROM services", "tenant_id = $1"), []any{"t1", "s1"}).
		Return(serviceRow("s1", "t1", "b1", model.ServicePending))
	db.On("QueryRow", mock.Anything, sqlContains("FROM budgets", "tenant_id = $1"), []any{"t1", "b1"}).
		Return(budgetRow("b1", "t1", model.BudgetApproved))

	res := NewServiceOrderService(db).Delete(ctx, "s1")
	assert.Equal(t, StatusForbidden, res.Status)
	assert.Contains(t, res.Message, "can no longer be deleted")
	db.AssertExpectations(t)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)

	tx := db.lastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestServiceOrderUpdate_BudgetNoLongerEditable(t *testing.T) {
	db := &mockDB{}
	ctx := scoped("t1")

	db.On("QueryRow", mock.Anything, sqlContains("FROM services", "tenant_id = $1"), []any{"t1", "s1"}).
		Return(serviceRow("s1", "t1", "b1", model.ServiceDraft))
	db.On("QueryRow", mock.Anything, sqlContains("FROM budgets", "tenant_id = $1"), []any{"t1", "b1"}).
		Return(budgetRow("b1", "t1", model.BudgetPending))

	res := NewServiceOrderService(db).Update(ctx, "s1", request.UpdateServiceOrder{Total: decimal.NewFromInt(10)})
	assert.Equal(t, StatusForbidden, res.Status)
	assert.Contains(t, res.Message, "can no longer be edited")
	assert.Nil(t, res.Data)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)

	tx := db.lastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestServiceOrderDelete_DraftBudget(t *testing.T) {
	db := &mockDB{}
	ctx := scoped("t1")

	db.On("QueryRow", mock.Anything, sqlContains("FROM services", "tenant_id = $1"), []any{"t1", "s1"}).
		Return(serviceRow("s1", "t1", "b1", model.ServiceDraft))
	db.On("QueryRow", mock.Anything, sqlContains("FROM budgets", "tenant_id = $1"), []any{"t1", "b1"}).
		Return(budgetRow("b1", "t1", model.BudgetDraft))
	db.On("QueryRow", mock.Anything, sqlContains("FROM invoices", "service_id = $2"), []any{"t1", "s1"}).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*bool)) = false
			return nil
		}})
	db.On("Exec", mock.Anything, sqlContains("DELETE FROM services"), []any{"t1", "s1"}).
		Return(pgconnTag("DELETE 1"), nil)
	db.On("Exec", mock.Anything, sqlContains("UPDATE budgets b"), mock.Anything).
		Return(pgconnTag("UPDATE 1"), nil)
	db.On("QueryRow", mock.Anything, sqlContains("INSERT INTO activities"), mock.Anything).
		Return(okRow())

	res := NewServiceOrderService(db).Delete(ctx, "s1")
	require.True(t, res.IsSuccess(), res.Message)
	db.AssertExpectations(t)
	assert.True(t, db.lastTx().committed)
}
