package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Dashboard struct {
	svc *core.DashboardService
}

func NewDashboard(svc *core.DashboardService) *Dashboard {
	return &Dashboard{svc: svc}
}

func (h *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Stats(r.Context()))
}
