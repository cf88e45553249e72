package handler

import (
	"net/http"
	"strings"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/store"
)

// AdminProvider is the platform operator's provider management.
type AdminProvider struct {
	svc *core.AdminProviderService
}

func NewAdminProvider(svc *core.AdminProviderService) *AdminProvider {
	return &AdminProvider{svc: svc}
}

func (h *AdminProvider) List(w http.ResponseWriter, r *http.Request) {
	f := store.ProviderFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Active: queryBool(r, "active"),
	}
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), f, request.ParseListParams(r)))
}

func (h *AdminProvider) Statistics(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Statistics(r.Context()))
}

func (h *AdminProvider) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *AdminProvider) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProvider
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *AdminProvider) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateProvider
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Update(r.Context(), id, req))
}

func (h *AdminProvider) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.ToggleStatus(r.Context(), id))
}

func (h *AdminProvider) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Delete(r.Context(), id))
}
