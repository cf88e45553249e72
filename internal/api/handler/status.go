package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

// StatusCatalog lists all statuses, or those of the entity in the path.
func StatusCatalog(w http.ResponseWriter, r *http.Request) {
	response.WriteResult(w, http.StatusOK, core.StatusCatalog(r.Context(), chi.URLParam(r, "entity")))
}
