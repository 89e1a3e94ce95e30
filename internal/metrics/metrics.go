// Package metrics exposes Prometheus metrics for lesson turns and sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/tutorloop/internal/gateway"
)

const namespace = "tutorloop"

// Metrics holds the collectors. It implements gateway.Observer.
type Metrics struct {
	registry *prometheus.Registry

	// TurnsTotal counts turns.
	// Labels: event (begin, continue, select, command, exit, restart),
	// outcome (committed, invalid_content, timeout, ...)
	TurnsTotal *prometheus.CounterVec

	// TurnDuration tracks turn latency including generation.
	// Labels: event
	TurnDuration *prometheus.HistogramVec

	// CorrectiveRetries counts turns that needed a second generation.
	// Labels: phase
	CorrectiveRetries *prometheus.CounterVec

	// Transitions counts committed phase changes.
	// Labels: from, to
	Transitions *prometheus.CounterVec

	// SessionsActive is the number of sessions held in memory.
	SessionsActive prometheus.Gauge

	// SessionsCreated counts sessions started through the API.
	SessionsCreated prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TurnsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "turns_total",
				Help:      "Total number of lesson turns by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		TurnDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "turn_duration_seconds",
				Help:      "Duration of lesson turns in seconds, including content generation",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"event"},
		),
		CorrectiveRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "corrective_retries_total",
				Help:      "Total number of turns that needed a corrective generation retry",
			},
			[]string{"phase"},
		),
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "phase_transitions_total",
				Help:      "Total number of committed phase transitions",
			},
			[]string{"from", "to"},
		),
		SessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "sessions_active",
				Help:      "Number of sessions held in memory",
			},
		),
		SessionsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "sessions_created_total",
				Help:      "Total number of sessions created",
			},
		),
	}
}

// ObserveTurn records one finished turn.
func (m *Metrics) ObserveTurn(o gateway.TurnOutcome) {
	m.TurnsTotal.WithLabelValues(o.Event, o.Outcome).Inc()
	m.TurnDuration.WithLabelValues(o.Event).Observe(o.Latency.Seconds())
	if o.Attempts > 1 {
		m.CorrectiveRetries.WithLabelValues(string(o.To)).Inc()
	}
	if o.Outcome == "committed" {
		m.Transitions.WithLabelValues(string(o.From), string(o.To)).Inc()
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
