package types

import "context"

// Hooks defines callbacks for engine lifecycle events.
//
// All hooks are optional. Hooks are invoked synchronously on the goroutine
// performing the mutating operation, while the task's lock is held; keep
// them fast and hand off long work to a channel or goroutine. Hook errors
// are logged but never fail engine operations — delivery is best-effort and
// not required for correctness.
type Hooks struct {
	// OnProjectionChanged is called after a recomputation that actually
	// changed the cached projection (checksum differs).
	// from: global number of the first recomputed occurrence
	// epoch: the ledger epoch the new projection was computed from
	OnProjectionChanged func(ctx context.Context, taskID string, from, epoch int64) error

	// OnStateChanged is called when a task's projection state transitions.
	OnStateChanged func(ctx context.Context, taskID string, from, to ProjectionState) error

	// OnError is called when a recoverable error occurs inside best-effort
	// paths (hook dispatch, sink publishing).
	OnError func(ctx context.Context, err error) error
}
