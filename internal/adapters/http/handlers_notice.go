package httpadapter

import (
	"errors"
	"io"
	"net/http"

	"github.com/seykim2025/kgoverment-proj/internal/core/document"
)

const (
	previewRunes = 500
	// multipart framing allowance on top of the file size limit
	multipartOverhead = 1 << 20
)

func (rt *Router) uploadNotice(w http.ResponseWriter, r *http.Request) {
	policy := rt.ingest.Policy()
	if policy.MaxBytes > 0 {
		limit := policy.MaxBytes + multipartOverhead
		if r.ContentLength > limit {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file exceeds upload limit"})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file exceeds upload limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read uploaded file"})
		return
	}

	notice, parsed, err := rt.ingest.Upload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"notice":   notice,
		"document": parsed,
		"preview":  document.Preview(parsed.Text, previewRunes),
	})
}

func (rt *Router) uploadPolicy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.ingest.Policy())
}

func (rt *Router) getNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := rt.notices.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notice)
}
