// Package response writes JSON responses in the API envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/edvin/easybudget/internal/core"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Status  core.Status `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    any         `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a failed envelope. It is used for failures detected
// before a service is called, such as malformed bodies or missing
// credentials.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Status: statusFor(status), Message: message})
}

// HTTPStatus maps a result status to its HTTP status code.
func HTTPStatus(s core.Status) int {
	switch s {
	case core.StatusSuccess:
		return http.StatusOK
	case core.StatusNotFound:
		return http.StatusNotFound
	case core.StatusInvalidData, core.StatusForbidden:
		return http.StatusUnprocessableEntity
	case core.StatusConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func statusFor(code int) core.Status {
	switch code {
	case http.StatusNotFound:
		return core.StatusNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return core.StatusInvalidData
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.StatusForbidden
	case http.StatusConflict:
		return core.StatusConflict
	}
	if code < 400 {
		return core.StatusSuccess
	}
	return core.StatusError
}

// WriteResult writes res in the envelope. successCode is used when the
// result succeeded (200 or 201).
func WriteResult[T any](w http.ResponseWriter, successCode int, res core.Result[T]) {
	if !res.IsSuccess() {
		WriteJSON(w, HTTPStatus(res.Status), Envelope{Success: false, Status: res.Status, Message: res.Message})
		return
	}
	WriteJSON(w, successCode, Envelope{Success: true, Status: res.Status, Message: res.Message, Data: res.Data})
}
