package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/api/response"
	"github.com/edvin/easybudget/internal/core"
)

type Report struct {
	svc *core.ReportService
}

func NewReport(svc *core.ReportService) *Report {
	return &Report{svc: svc}
}

// Export renders a report of the entity in the path. With upload=true the
// file is stored and the envelope carries a download link; otherwise the
// file itself is the response body.
func (h *Report) Export(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseExportReport(r, chi.URLParam(r, "entity"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.svc.Export(r.Context(), req)
	if !res.IsSuccess() || req.Upload {
		response.WriteResult(w, http.StatusOK, res)
		return
	}

	f := res.Data
	w.Header().Set("Content-Type", f.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Body)
}
