package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Support struct {
	svc *core.SupportService
}

func NewSupport(svc *core.SupportService) *Support {
	return &Support{svc: svc}
}

// Create accepts tickets from anonymous visitors and signed-in tenants.
func (h *Support) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSupportTicket
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *Support) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), request.ParseListParams(r)))
}

func (h *Support) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *Support) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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
