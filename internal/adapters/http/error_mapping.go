package httpadapter

import (
	"errors"
	"net/http"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

var statusByKind = map[error]int{
	domain.ErrInvalidInput:      http.StatusBadRequest,
	domain.ErrMalformedDocument: http.StatusBadRequest,
	domain.ErrNotFound:          http.StatusNotFound,
	domain.ErrTemporary:         http.StatusServiceUnavailable,
	domain.ErrUpstream:          http.StatusBadGateway,
	domain.ErrResponseFormat:    http.StatusBadGateway,
}

func mapErrorToHTTPStatus(err error) int {
	if status, ok := statusByKind[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error    string `json:"error"`
	RawTrace string `json:"raw_trace,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// writeError renders err with its mapped status. A failed assessment keeps the
// engine's raw reply in the body so the caller can inspect it.
func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	resp := errorResponse{Error: err.Error()}

	var assessErr *domain.AssessmentError
	if errors.As(err, &assessErr) && assessErr.Outcome != nil {
		resp.RawTrace = assessErr.Outcome.RawTrace
		resp.Mode = string(assessErr.Outcome.Mode)
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
