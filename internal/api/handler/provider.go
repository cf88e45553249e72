package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

// Provider serves the provider record of the authenticated tenant.
type Provider struct {
	svc *core.ProviderService
}

func NewProvider(svc *core.ProviderService) *Provider {
	return &Provider{svc: svc}
}

func (h *Provider) Get(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.GetCurrent(r.Context()))
}

func (h *Provider) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProvider
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.UpdateCurrent(r.Context(), req))
}
