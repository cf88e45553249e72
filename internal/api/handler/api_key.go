package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type APIKey struct {
	svc *core.APIKeyService
}

func NewAPIKey(svc *core.APIKeyService) *APIKey {
	return &APIKey{svc: svc}
}

func (h *APIKey) List(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, h.svc.List(r.Context(), request.ParseListParams(r)))
}

// Create returns the plaintext key once; only its hash is stored.
func (h *APIKey) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAPIKey
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Create(r.Context(), req))
}

func (h *APIKey) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Get(r.Context(), id))
}

func (h *APIKey) Revoke(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Revoke(r.Context(), id))
}
