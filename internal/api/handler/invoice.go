package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Invoice struct {
	svc *core.InvoiceService
}

func NewInvoice(svc *core.InvoiceService) *Invoice {
	return &Invoice{svc: svc}
}

func (h *Invoice) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), r.URL.Query().Get("customer_id"), request.ParseListParams(r)))
}

func (h *Invoice) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *Invoice) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateInvoice
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *Invoice) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.ChangeInvoiceStatus
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.ChangeStatus(r.Context(), id, req))
}

func (h *Invoice) Metrics(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Metrics(r.Context()))
}
