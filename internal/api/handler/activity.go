package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/store"
)

type Activity struct {
	svc *core.ActivityService
}

func NewActivity(svc *core.ActivityService) *Activity {
	return &Activity{svc: svc}
}

func (h *Activity) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ActivityFilter{
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		ActionType: q.Get("action_type"),
		UserID:     q.Get("user_id"),
	}
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), f, request.ParseListParams(r)))
}
