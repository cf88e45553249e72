package handler

import (
	"net/http"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Auth struct {
	svc *core.AuthService
}

func NewAuth(svc *core.AuthService) *Auth {
	return &Auth{svc: svc}
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req request.Register
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusCreated, h.svc.Register(r.Context(), req))
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if !decode(w, r, &req) {
		return
	}
	response.WriteResult(w, http.StatusOK, h.svc.Login(r.Context(), req))
}
