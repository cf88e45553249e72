package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Subscription struct {
	svc *core.SubscriptionService
}

func NewSubscription(svc *core.SubscriptionService) *Subscription {
	return &Subscription{svc: svc}
}

func (h *Subscription) Current(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Current(r.Context()))
}

func (h *Subscription) History(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.History(r.Context(), request.ParseListParams(r)))
}

func (h *Subscription) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req request.Subscribe
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Subscribe(r.Context(), req))
}

func (h *Subscription) Cancel(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.Cancel(r.Context()))
}
