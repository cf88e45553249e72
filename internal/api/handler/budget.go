package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Budget struct {
	svc *core.BudgetService
}

func NewBudget(svc *core.BudgetService) *Budget {
	return &Budget{svc: svc}
}

func (h *Budget) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), r.URL.Query().Get("customer_id"), request.ParseListParams(r)))
}

func (h *Budget) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *Budget) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBudget
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *Budget) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateBudget
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Update(r.Context(), id, req))
}

func (h *Budget) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Delete(r.Context(), id))
}

func (h *Budget) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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

func (h *Budget) Metrics(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Metrics(r.Context()))
}
