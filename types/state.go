package types

// ProjectionState is the per-task projection freshness state.
//
// The engine keeps one state per task:
//
//	StateFresh ⇄ StateStale
//
// StateFresh means the cached projection was computed from the ledger's
// current epoch. A ledger mutation that invalidates the projection moves the
// task to StateStale; a successful recomputation moves it back to StateFresh.
type ProjectionState int

const (
	// StateFresh indicates the projection epoch equals the ledger epoch.
	StateFresh ProjectionState = iota

	// StateStale indicates the ledger mutated since the last projection.
	StateStale
)

// String returns the string representation of the state.
func (s ProjectionState) String() string {
	switch s {
	case StateFresh:
		return "Fresh"
	case StateStale:
		return "Stale"
	default:
		return "Unknown"
	}
}
