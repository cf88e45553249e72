package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Plan struct {
	svc *core.PlanService
}

func NewPlan(svc *core.PlanService) *Plan {
	return &Plan{svc: svc}
}

// ListActive is the public plan catalogue.
func (h *Plan) ListActive(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), true))
}

// List returns every plan, including inactive ones.
func (h *Plan) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), false))
}

func (h *Plan) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *Plan) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlan
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *Plan) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdatePlan
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Update(r.Context(), id, req))
}
