package handler

import (
	"net/http"
	"strconv"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Customer struct {
	svc *core.CustomerService
}

func NewCustomer(svc *core.CustomerService) *Customer {
	return &Customer{svc: svc}
}

func (h *Customer) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), request.ParseCustomerFilter(r)))
}

// Search backs the customer autocomplete.
func (h *Customer) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	response.WriteResult(w, http.StatusOK, h.svc.Search(r.Context(), r.URL.Query().Get("q"), limit))
}

func (h *Customer) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *Customer) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCustomer
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *Customer) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateCustomer
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Update(r.Context(), id, req))
}

func (h *Customer) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Delete(r.Context(), id))
}
