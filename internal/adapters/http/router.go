package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
	"github.com/seykim2025/kgoverment-proj/internal/observability/metrics"
)

type Router struct {
	cfg         config.Config
	ingest      ports.NoticeIngestor
	notices     ports.NoticeReader
	profile     ports.ProfileService
	assessments ports.AssessmentService
	exporter    ports.HistoryExporter
	metrics     *metrics.HTTPServerMetrics
	validator   *openAPIValidator
}

func NewRouter(
	cfg config.Config,
	ingest ports.NoticeIngestor,
	notices ports.NoticeReader,
	profile ports.ProfileService,
	assessments ports.AssessmentService,
) *Router {
	validator, err := newOpenAPIValidator()
	if err != nil {
		panic(err)
	}
	return &Router{
		cfg:         cfg,
		ingest:      ingest,
		notices:     notices,
		profile:     profile,
		assessments: assessments,
		validator:   validator,
	}
}

// WithExporter enables GET /v1/assessments/export.xlsx.
func (rt *Router) WithExporter(e ports.HistoryExporter) *Router {
	rt.exporter = e
	return rt
}

func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	handle(mux, "GET /healthz", rt.healthz)
	handle(mux, "GET /openapi.yaml", rt.openAPIDocument)
	if rt.metrics != nil {
		handle(mux, "GET /metrics", rt.metrics.Handler().ServeHTTP)
	}

	handle(mux, "GET /v1/company", rt.getCompany)
	handle(mux, "PUT /v1/company", rt.saveCompany)

	handle(mux, "GET /v1/projects", rt.listProjects)
	handle(mux, "POST /v1/projects", rt.createProject)
	handle(mux, "GET /v1/projects/{id}", rt.getProject)
	handle(mux, "PUT /v1/projects/{id}", rt.updateProject)
	handle(mux, "DELETE /v1/projects/{id}", rt.deleteProject)

	handle(mux, "POST /v1/notices", rt.uploadNotice)
	handle(mux, "GET /v1/notices/upload-policy", rt.uploadPolicy)
	handle(mux, "GET /v1/notices/{id}", rt.getNotice)

	handle(mux, "POST /v1/assessments", rt.runAssessment)
	handle(mux, "GET /v1/assessments", rt.listAssessments)
	handle(mux, "GET /v1/assessments/export.xlsx", rt.exportAssessments)
	handle(mux, "GET /v1/assessments/{id}", rt.getAssessment)

	var onReject rejectFunc
	if rt.metrics != nil {
		onReject = rt.metrics.RecordRejected
	}

	var handler http.Handler = rt.validator.middleware(mux)
	handler = backpressureMiddleware(
		handler,
		rt.cfg.APIMaxInFlight,
		time.Duration(rt.cfg.APIBackpressureWaitMS)*time.Millisecond,
		onReject,
	)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onReject)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler, routeOf)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

// handle registers h so the access log and metrics can see which pattern
// served the request.
func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, captureRoute(h))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("http_write_json_failed", "error", err)
	}
}
