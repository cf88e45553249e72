package core

import (
	"context"

	"github.com/edvin/easybudget/internal/model"
)

// Catalog entities.
const (
	CatalogBudget  = "budget"
	CatalogService = "service"
	CatalogInvoice = "invoice"
)

// StatusCatalog lists the statuses of budgets, services and invoices with
// their display metadata and allowed transitions.
func StatusCatalog(ctx context.Context, entity string) Result[map[string][]model.StatusInfo] {
	const op = "status.catalog"
	all := map[string][]model.StatusInfo{
		CatalogBudget:  model.BudgetStatusCatalog(),
		CatalogService: model.ServiceStatusCatalog(),
		CatalogInvoice: model.InvoiceStatusCatalog(),
	}
	if entity == "" {
		return succeed(op, all, "")
	}
	infos, ok := all[entity]
	if !ok {
		return fail[map[string][]model.StatusInfo](ctx, op, notFound("no statuses for %s", entity))
	}
	return succeed(op, map[string][]model.StatusInfo{entity: infos}, "")
}
