package request

import "github.com/shopspring/decimal"

// CreateInvoice bills the customer of a service. Amounts are taken from the
// service; Discount overrides the service discount when set.
type CreateInvoice struct {
	ServiceID string           `json:"service_id" validate:"required"`
	DueDate   *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Discount  *decimal.Decimal `json:"discount"`
	Notes     *string          `json:"notes" validate:"omitempty,max=2000"`
}

// ChangeInvoiceStatus moves an invoice along its state machine. The payment
// fields are only used when paying.
type ChangeInvoiceStatus struct {
	Status            string           `json:"status" validate:"required"`
	PaymentMethod     *string          `json:"payment_method" validate:"omitempty,max=50"`
	TransactionAmount *decimal.Decimal `json:"transaction_amount"`
	TransactionDate   *string          `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
}
