// Package handler contains the HTTP handlers. Handlers decode and validate
// the request, call one service and write its Result.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
)

// decode reads and validates the JSON body into v. It writes a 400 and
// returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := request.Decode(r, v); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID returns the named URL parameter, writing a 400 when it is empty.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := request.RequireID(chi.URLParam(r, name))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
