package httpadapter

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
)

const defaultListLimit = 50

func (rt *Router) runAssessment(w http.ResponseWriter, r *http.Request) {
	var req ports.AssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	assessment, err := rt.assessments.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "assessment": assessment})
}

func (rt *Router) listAssessments(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	items, err := rt.assessments.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.AssessmentSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assessments": items})
}

func (rt *Router) getAssessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := rt.assessments.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (rt *Router) exportAssessments(w http.ResponseWriter, r *http.Request) {
	if rt.exporter == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "history export is not configured"})
		return
	}
	items, err := rt.assessments.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := rt.exporter.Export(&buf, items); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", rt.exporter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+rt.exporter.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
