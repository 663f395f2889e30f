package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the MathForge service.
type Metrics struct {
	RequestTotal      *prometheus.CounterVec
	RequestDurationMs *prometheus.HistogramVec
	ErrorTotal        *prometheus.CounterVec
	QuizGenerated     *prometheus.CounterVec
	QuizChecked       *prometheus.CounterVec
	AuditEntries      prometheus.Gauge
}

// NewMetrics creates all metrics and registers them with reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathforge_request_total",
			Help: "Total number of requests handled.",
		}, []string{"endpoint", "status"}),

		RequestDurationMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mathforge_request_duration_ms",
			Help:    "Request duration in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}, []string{"endpoint"}),

		ErrorTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathforge_error_total",
			Help: "Total failed requests by error code.",
		}, []string{"endpoint", "code"}),

		QuizGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathforge_quiz_generated_total",
			Help: "Total quiz questions generated.",
		}, []string{"family"}),

		QuizChecked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathforge_quiz_checked_total",
			Help: "Total quiz answers checked.",
		}, []string{"family", "result"}),

		AuditEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "mathforge_audit_entries",
			Help: "Entries currently held in the audit log.",
		}),
	}
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(labels.Endpoint, labels.Status).Inc()
	m.RequestDurationMs.WithLabelValues(labels.Endpoint).Observe(labels.DurationMs)
}

// RecordError counts a failed request by its error code.
func (m *Metrics) RecordError(endpoint, code string) {
	m.ErrorTotal.WithLabelValues(endpoint, code).Inc()
}

func (m *Metrics) RecordQuizGenerated(family string) {
	m.QuizGenerated.WithLabelValues(family).Inc()
}

func (m *Metrics) RecordQuizChecked(family string, correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.QuizChecked.WithLabelValues(family, result).Inc()
}

func (m *Metrics) SetAuditEntries(n int) {
	m.AuditEntries.Set(float64(n))
}

// RequestLabels holds the label values for recording a request.
type RequestLabels struct {
	Endpoint   string
	Status     string
	DurationMs float64
}
