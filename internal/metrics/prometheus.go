package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ansonyc/rota/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions    *prometheus.CounterVec
	completions         *prometheus.CounterVec
	decisions           *prometheus.CounterVec
	ledgerBaseline      *prometheus.GaugeVec
	ledgerPending       *prometheus.GaugeVec
	projectionDuration  *prometheus.HistogramVec
	projectionSize      prometheus.Histogram
	projectionUnchanged prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rota" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rota"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "state_transitions_total",
			Help:      "Total projection state transitions by from/to state.",
		}, []string{"from", "to"})

		p.completions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "completions_total",
			Help:      "Total recorded completions by whether they matched the projection.",
		}, []string{"expected"})

		p.decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "decisions_total",
			Help:      "Total approval decisions by outcome.",
		}, []string{"outcome"})

		p.ledgerBaseline = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "ledger",
			Name:      "baseline_records",
			Help:      "Current approved record count per task.",
		}, []string{"task_id"})

		p.ledgerPending = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "ledger",
			Name:      "pending_records",
			Help:      "Current pending record count per task.",
		}, []string{"task_id"})

		p.projectionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "projection",
			Name:      "duration_seconds",
			Help:      "Projection computation durations by recompute reason.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"reason"})

		p.projectionSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "projection",
			Name:      "size_occurrences",
			Help:      "Number of occurrences covered per projection run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 365},
		})

		p.projectionUnchanged = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "projection",
			Name:      "unchanged_total",
			Help:      "Total recomputations whose result matched the previous projection.",
		})

		for _, c := range []prometheus.Collector{
			p.stateTransitions, p.completions, p.decisions,
			p.ledgerBaseline, p.ledgerPending,
			p.projectionDuration, p.projectionSize, p.projectionUnchanged,
		} {
			// Ignore AlreadyRegisteredError so multiple engines can share a
			// registerer with the same namespace.
			_ = p.reg.Register(c)
		}
	})
}

// RecordStateTransition records a task projection state transition.
func (p *PrometheusCollector) RecordStateTransition(_ string, from, to types.ProjectionState) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordCompletion records a completion submission.
func (p *PrometheusCollector) RecordCompletion(expected bool) {
	p.ensureRegistered()
	if expected {
		p.completions.WithLabelValues("true").Inc()
	} else {
		p.completions.WithLabelValues("false").Inc()
	}
}

// RecordDecision records an approval decision.
func (p *PrometheusCollector) RecordDecision(approved bool) {
	p.ensureRegistered()
	if approved {
		p.decisions.WithLabelValues("approve").Inc()
	} else {
		p.decisions.WithLabelValues("reject").Inc()
	}
}

// RecordLedgerSize sets the current record counts for a task.
func (p *PrometheusCollector) RecordLedgerSize(taskID string, baseline, pending int) {
	p.ensureRegistered()
	p.ledgerBaseline.WithLabelValues(taskID).Set(float64(baseline))
	p.ledgerPending.WithLabelValues(taskID).Set(float64(pending))
}

// RecordProjectionDuration records the time taken by a projection run.
func (p *PrometheusCollector) RecordProjectionDuration(duration float64, reason string) {
	p.ensureRegistered()
	p.projectionDuration.WithLabelValues(reason).Observe(duration)
}

// RecordProjectionSize records the number of occurrences covered by a run.
func (p *PrometheusCollector) RecordProjectionSize(count int) {
	p.ensureRegistered()
	p.projectionSize.Observe(float64(count))
}

// RecordProjectionUnchanged records a checksum-identical recomputation.
func (p *PrometheusCollector) RecordProjectionUnchanged() {
	p.ensureRegistered()
	p.projectionUnchanged.Inc()
}
