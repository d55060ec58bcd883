package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every exported metric.
const namespace = "sumcalc"

// Solve outcome label values.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusStopped = "stopped"
)

// SolveMetrics instruments the solve pipeline. Metrics are registered on a
// caller-supplied registry rather than the global default, so tests and
// embedded uses can run multiple instances without collisions.
type SolveMetrics struct {
	registry prometheus.Gatherer

	activeSolves  prometheus.Gauge
	solvesTotal   *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	solutions     prometheus.Histogram
}

// NewSolveMetrics creates and registers the solve metrics on reg. The same
// reg must back the /metrics endpoint via Handler.
func NewSolveMetrics(reg *prometheus.Registry) *SolveMetrics {
	factory := promauto.With(reg)
	return &SolveMetrics{
		registry: reg,
		activeSolves: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_solves",
			Help:      "Number of solve requests currently in flight.",
		}),
		solvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Completed solve requests by algorithm, backend and status.",
		}, []string{"algorithm", "backend", "status"}),
		solveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of solve requests by algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		solutions: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solutions_per_solve",
			Help:      "Number of solutions returned per completed solve.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// SolveStarted marks a solve as in flight.
func (m *SolveMetrics) SolveStarted() {
	m.activeSolves.Inc()
}

// SolveFinished records the outcome of a completed solve and marks it no
// longer in flight.
func (m *SolveMetrics) SolveFinished(algorithm, backendName, status string, elapsed time.Duration, solutionCount int) {
	m.activeSolves.Dec()
	m.solvesTotal.WithLabelValues(algorithm, backendName, status).Inc()
	m.solveDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if status == StatusOK {
		m.solutions.Observe(float64(solutionCount))
	}
}

// Handler serves the backing registry in Prometheus exposition format.
func (m *SolveMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
