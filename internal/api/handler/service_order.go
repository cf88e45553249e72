package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

// ServiceOrder handles the services (work orders) of a budget.
type ServiceOrder struct {
	svc *core.ServiceOrderService
}

func NewServiceOrder(svc *core.ServiceOrderService) *ServiceOrder {
	return &ServiceOrder{svc: svc}
}

func (h *ServiceOrder) ListByBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathID(w, r, "budgetID")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.ListByBudget(r.Context(), budgetID))
}

func (h *ServiceOrder) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *ServiceOrder) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateServiceOrder
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *ServiceOrder) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateServiceOrder
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Update(r.Context(), id, req))
}

func (h *ServiceOrder) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Delete(r.Context(), id))
}

func (h *ServiceOrder) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.ChangeStatus
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.ChangeStatus(r.Context(), id, req))
}
