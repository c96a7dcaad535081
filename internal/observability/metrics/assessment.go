package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// AssessmentMetrics records assessment outcomes and judgment-engine calls.
type AssessmentMetrics struct {
	service string

	assessmentsTotal *prometheus.CounterVec
	engineDuration   *prometheus.HistogramVec
	engineCallsTotal *prometheus.CounterVec
	breakerChanges   *prometheus.CounterVec
}

func NewAssessmentMetrics(service string, registerer prometheus.Registerer) *AssessmentMetrics {
	assessmentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Finished assessments by mode, status and traffic light.",
		},
		[]string{"service", "mode", "status", "traffic_light"},
	)
	engineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "call_duration_seconds",
			Help:      "Judgment engine call duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"service", "engine"},
	)
	engineCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calls_total",
			Help:      "Judgment engine calls by result.",
		},
		[]string{"service", "engine", "result"},
	)
	breakerChanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions.",
		},
		[]string{"service", "operation", "to"},
	)

	registerer.MustRegister(assessmentsTotal, engineDuration, engineCallsTotal, breakerChanges)

	return &AssessmentMetrics{
		service:          service,
		assessmentsTotal: assessmentsTotal,
		engineDuration:   engineDuration,
		engineCallsTotal: engineCallsTotal,
		breakerChanges:   breakerChanges,
	}
}

func (m *AssessmentMetrics) RecordAssessment(mode domain.AssessmentMode, success bool, light domain.TrafficLight) {
	status := "success"
	if !success {
		status = "error"
	}
	lightLabel := string(light)
	if lightLabel == "" {
		lightLabel = "none"
	}
	m.assessmentsTotal.WithLabelValues(m.service, string(mode), status, lightLabel).Inc()
}

func (m *AssessmentMetrics) RecordEngineCall(engine string, seconds float64, err error) {
	if engine == "" {
		engine = "unknown"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.engineDuration.WithLabelValues(m.service, engine).Observe(seconds)
	m.engineCallsTotal.WithLabelValues(m.service, engine, result).Inc()
}

// RecordBreakerTransition matches resilience.Config.OnStateChange.
func (m *AssessmentMetrics) RecordBreakerTransition(operation, _, to string) {
	m.breakerChanges.WithLabelValues(m.service, operation, to).Inc()
}
