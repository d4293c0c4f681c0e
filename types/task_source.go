package types

import "context"

// TaskSource provides read-only access to task definitions.
//
// Implementations can query various backends:
//   - The household task store of the embedding application
//   - Static: fixed list for testing (see the source package)
//
// The engine calls GetTask once per operation and works on the returned
// snapshot, so the definition only needs to be stable for the duration of a
// single projection computation.
type TaskSource interface {
	// GetTask returns the task definition for the given identifier.
	//
	// Implementations should:
	//   - Return ErrUnknownTask (possibly wrapped) for missing tasks
	//   - Return consistent results for the same backend state
	//   - Handle context cancellation gracefully
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - taskID: Task identifier
	//
	// Returns:
	//   - Task: Task snapshot
	//   - error: Lookup error (nil on success)
	GetTask(ctx context.Context, taskID string) (Task, error)
}

// ProjectionSink receives newly computed projections for external consumers.
//
// Sinks are best-effort: the engine logs publish failures and continues.
// A sink implementation must tolerate being called with projections for
// multiple independent tasks concurrently.
type ProjectionSink interface {
	// PublishProjection delivers an epoch-tagged projection.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - projection: The full cached projection for one task
	//
	// Returns:
	//   - error: Publish error (logged by the engine, never propagated)
	PublishProjection(ctx context.Context, projection Projection) error
}
