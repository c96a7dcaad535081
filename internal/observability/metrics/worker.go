package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// WorkerMetrics covers the notice-processing worker: outcomes, time spent
// extracting text and how long events waited on the broker.
type WorkerMetrics struct {
	registry *prometheus.Registry

	notices  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	busy     prometheus.Gauge
	lag      prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	constLabels := prometheus.Labels{"service": service}
	m := &WorkerMetrics{
		registry: prometheus.NewRegistry(),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "notices_processed_total",
			Help:        "Processed notice events by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "notice_processing_seconds",
			Help:        "Time to extract and store one notice, by outcome.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 300},
		}, []string{"outcome"}),
		busy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "notices_in_progress",
			Help:        "Notices currently being processed.",
			ConstLabels: constLabels,
		}),
		lag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between a notice upload and the worker picking it up.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		}),
	}
	m.registry.MustRegister(m.notices, m.duration, m.busy, m.lag)
	return m
}

// Registry lets the worker's assessment collectors share its endpoint.
func (m *WorkerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartNotice marks a notice as in progress. Call the returned function
// exactly once with the processing result.
func (m *WorkerMetrics) StartNotice() func(err error) {
	m.busy.Inc()
	start := time.Now()
	return func(err error) {
		m.busy.Dec()
		outcome := noticeOutcome(err)
		m.notices.WithLabelValues(outcome).Inc()
		m.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag >= 0 {
		m.lag.Observe(lag.Seconds())
	}
}

func noticeOutcome(err error) string {
	switch {
	case err == nil:
		return "ready"
	case errors.Is(err, domain.ErrMalformedDocument):
		return "malformed"
	case errors.Is(err, domain.ErrNotFound):
		return "missing"
	case errors.Is(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "failed"
	}
}
