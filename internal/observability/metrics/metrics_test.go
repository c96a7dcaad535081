package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	route := ""
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}), func(*http.Request) string { return route })

	route = "/v1/projects/{id}"
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/projects/p9", nil))
	route = ""
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/v1/projects/{id}", "418")); got != 1 {
		t.Fatalf("matched route count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "418")); got != 1 {
		t.Fatalf("unmatched count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Fatalf("in flight = %v after requests finished", got)
	}
}

func TestRecordRejected(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.RecordRejected("rate_limited")
	m.RecordRejected("rate_limited")
	m.RecordRejected("overloaded")

	if got := testutil.ToFloat64(m.rejected.WithLabelValues("rate_limited")); got != 2 {
		t.Fatalf("rate_limited = %v, want 2", got)
	}
}

func TestWorkerMetricsOutcomes(t *testing.T) {
	m := NewWorkerMetrics("worker")

	done := m.StartNotice()
	if got := testutil.ToFloat64(m.busy); got != 1 {
		t.Fatalf("in progress = %v, want 1", got)
	}
	done(nil)
	m.StartNotice()(domain.WrapError(domain.ErrMalformedDocument, "parse pdf", errors.New("no text layer")))
	m.StartNotice()(errors.New("disk full"))
	m.ObserveQueueLag(2 * time.Second)
	m.ObserveQueueLag(-time.Second)

	for outcome, want := range map[string]float64{"ready": 1, "malformed": 1, "failed": 1, "temporary": 0} {
		if got := testutil.ToFloat64(m.notices.WithLabelValues(outcome)); got != want {
			t.Fatalf("%s = %v, want %v", outcome, got, want)
		}
	}
	if got := testutil.ToFloat64(m.busy); got != 0 {
		t.Fatalf("in progress = %v after finishing", got)
	}
	if n := testutil.CollectAndCount(m.lag); n != 1 {
		t.Fatalf("lag series = %d", n)
	}
}

func TestAssessmentMetricsShareRegistry(t *testing.T) {
	httpMetrics := NewHTTPServerMetrics("api")
	m := NewAssessmentMetrics("api", httpMetrics.Registry())

	m.RecordAssessment(domain.AssessmentModeFallback, true, domain.TrafficLightYellow)
	m.RecordAssessment(domain.AssessmentModeEngine, false, "")
	m.RecordEngineCall("openai", 1.5, errors.New("timeout"))
	m.RecordBreakerTransition("openai.chat_completions", "closed", "open")

	if got := testutil.ToFloat64(m.assessmentsTotal.WithLabelValues("api", "fallback", "success", "YELLOW")); got != 1 {
		t.Fatalf("unexpected fallback count %v", got)
	}
	if got := testutil.ToFloat64(m.assessmentsTotal.WithLabelValues("api", "engine", "error", "none")); got != 1 {
		t.Fatalf("unexpected error count %v", got)
	}
	if got := testutil.ToFloat64(m.engineCallsTotal.WithLabelValues("api", "openai", "error")); got != 1 {
		t.Fatalf("unexpected engine error count %v", got)
	}
	if got := testutil.ToFloat64(m.breakerChanges.WithLabelValues("api", "openai.chat_completions", "open")); got != 1 {
		t.Fatalf("unexpected breaker count %v", got)
	}
	if n, err := testutil.GatherAndCount(httpMetrics.Registry()); err != nil || n == 0 {
		t.Fatalf("expected metrics on shared registry, n=%d err=%v", n, err)
	}
}
