package httpadapter

import (
	"net/http"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func (rt *Router) getCompany(w http.ResponseWriter, r *http.Request) {
	profile, err := rt.profile.GetProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		profile = &domain.CompanyProfile{
			Projects:          []domain.Project{},
			RecentAssessments: []domain.AssessmentSummary{},
		}
	}
	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) saveCompany(w http.ResponseWriter, r *http.Request) {
	var form domain.CompanyForm
	if err := decodeJSON(r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	company, err := form.ToCompany()
	if err != nil {
		writeError(w, err)
		return
	}
	saved, err := rt.profile.SaveCompany(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "company": saved})
}

func (rt *Router) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := rt.profile.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (rt *Router) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := rt.profile.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (rt *Router) createProject(w http.ResponseWriter, r *http.Request) {
	var input domain.Project
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	project, err := rt.profile.CreateProject(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (rt *Router) updateProject(w http.ResponseWriter, r *http.Request) {
	var input domain.Project
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}
	project, err := rt.profile.UpdateProject(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (rt *Router) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := rt.profile.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
