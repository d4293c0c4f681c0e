package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called while the mutating task's lock is held and must be
// thread-safe across tasks.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	EngineMetrics
	LedgerMetrics
	ProjectionMetrics
}

// EngineMetrics defines metrics for controller-level operations.
type EngineMetrics interface {
	// RecordStateTransition records a task projection state transition.
	RecordStateTransition(taskID string, from, to ProjectionState)

	// RecordCompletion records a completion submission.
	//
	// Parameters:
	//   - expected: true when the completing user matched the projected
	//     assignee (no recomputation needed)
	RecordCompletion(expected bool)

	// RecordDecision records an approval decision.
	//
	// Parameters:
	//   - approved: true for approve, false for reject
	RecordDecision(approved bool)
}

// LedgerMetrics defines metrics for completion ledger state.
type LedgerMetrics interface {
	// RecordLedgerSize sets the current baseline and pending record counts
	// for a task (gauge metrics).
	RecordLedgerSize(taskID string, baseline, pending int)
}

// ProjectionMetrics defines metrics for projection computations.
type ProjectionMetrics interface {
	// RecordProjectionDuration records the time taken by a projection run.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - reason: Recompute trigger ("unexpected_completion", "rejection",
	//     "lookup", "project")
	RecordProjectionDuration(duration float64, reason string)

	// RecordProjectionSize records the number of occurrences covered by a
	// projection run.
	RecordProjectionSize(count int)

	// RecordProjectionUnchanged records a recomputation whose result was
	// byte-identical to the previous projection (checksum match), so change
	// notifications were suppressed.
	RecordProjectionUnchanged()
}
