// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/ansonyc/rota/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	eng, err := rota.New(&cfg, src, rota.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// EngineMetrics implementation

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* taskID */ string, _ /* from */, _ /* to */ types.ProjectionState) {
	// No-op
}

// RecordCompletion discards the completion metric.
func (n *NopMetrics) RecordCompletion(_ /* expected */ bool) {
	// No-op
}

// RecordDecision discards the approval decision metric.
func (n *NopMetrics) RecordDecision(_ /* approved */ bool) {
	// No-op
}

// LedgerMetrics implementation

// RecordLedgerSize discards the ledger size metric.
func (n *NopMetrics) RecordLedgerSize(_ /* taskID */ string, _ /* baseline */, _ /* pending */ int) {
	// No-op
}

// ProjectionMetrics implementation

// RecordProjectionDuration discards the projection duration metric.
func (n *NopMetrics) RecordProjectionDuration(_ /* duration */ float64, _ /* reason */ string) {
	// No-op
}

// RecordProjectionSize discards the projection size metric.
func (n *NopMetrics) RecordProjectionSize(_ /* count */ int) {
	// No-op
}

// RecordProjectionUnchanged discards the unchanged-projection metric.
func (n *NopMetrics) RecordProjectionUnchanged() {
	// No-op
}
