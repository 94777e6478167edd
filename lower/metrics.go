package lower

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/shadergraph/ir"
)

const (
	namespace = "shadergraph"
	subsystem = "lower"
)

// Metrics holds prometheus metrics for lowering.
type Metrics struct {
	compileTime *prometheus.HistogramVec
	statements  *prometheus.CounterVec
}

// NewMetrics creates unregistered lowering metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		compileTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "compile_duration_seconds",
				Help:      "Script lowering time in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12), // 10µs to ~40ms
			},
			[]string{"result"}, // "success" or "error"
		),
		statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "statements_total",
				Help:      "Statements emitted by lowering, by node category.",
			},
			[]string{"kind"},
		),
	}
}

// ObserveCompile records a lowering duration.
func (m *Metrics) ObserveCompile(durationSeconds float64, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.compileTime.WithLabelValues(result).Observe(durationSeconds)
}

// countStatements records the emitted statements of a program.
func (m *Metrics) countStatements(kinds map[ir.NodeCategory]int) {
	if m == nil {
		return
	}
	for kind, n := range kinds {
		m.statements.WithLabelValues(kind.String()).Add(float64(n))
	}
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.compileTime)
	registry.MustRegister(m.statements)
}
