// Package metrics exposes Prometheus collectors for generations, history writes
// and sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reelarchitect/internal/history"
)

const namespace = "reelarchitect"

// Generation outcomes beyond the aiclient error kinds.
const (
	OutcomeSuccess        = "success"
	OutcomeAuthPending    = "auth_pending"
	OutcomeBusy           = "busy"
	OutcomeInvalidRequest = "invalid_request"
)

// Metrics owns its registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	generationsTotal   *prometheus.CounterVec
	generationDuration prometheus.Histogram
	appendsTotal       *prometheus.CounterVec
	deletesTotal       *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Generation requests by outcome.",
			},
			[]string{"outcome"},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Latency of calls to the generative API.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
			},
		),
		appendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "appends_total",
				Help:      "Background history appends by result.",
			},
			[]string{"result"},
		),
		deletesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "deletes_total",
				Help:      "History deletes by result.",
			},
			[]string{"result"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Browser sessions currently held in memory.",
			},
		),
	}
}

// ObserveGeneration counts one generation attempt. Pass a zero duration when
// the generative API was never called.
func (m *Metrics) ObserveGeneration(outcome string, took time.Duration) {
	m.generationsTotal.WithLabelValues(outcome).Inc()
	if took > 0 {
		m.generationDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// ReportAppend makes Metrics a history.DiagnosticsSink.
func (m *Metrics) ReportAppend(o history.AppendOutcome) {
	m.appendsTotal.WithLabelValues(result(o.Err)).Inc()
}

func (m *Metrics) ReportDelete(o history.DeleteOutcome) {
	m.deletesTotal.WithLabelValues(result(o.Err)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
