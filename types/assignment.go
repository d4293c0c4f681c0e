package types

// Assignment records which user is responsible for one occurrence.
//
// Assignments are write-once per epoch: a recomputation supersedes cached
// assignments with new values rather than mutating them in place.
type Assignment struct {
	// Key addresses the assigned occurrence.
	Key OccurrenceKey `json:"key"`

	// Global is the occurrence's global number.
	Global int64 `json:"global"`

	// User is the assigned user.
	User string `json:"user"`

	// Reason describes how the assignee was chosen ("rotation" for
	// balanced-mode rotation, "rebalance" for imbalanced-mode catch-up).
	Reason string `json:"reason"`

	// Epoch is the ledger epoch the assignment was computed from.
	Epoch int64 `json:"epoch"`
}

// Projection is the engine's computed mapping from future occurrences to
// assigned users for one task, tagged with the ledger epoch it was computed
// from.
type Projection struct {
	// TaskID identifies the task.
	TaskID string `json:"taskId"`

	// Epoch is the ledger epoch the projection was computed from.
	Epoch int64 `json:"epoch"`

	// From is the global number of the first occurrence the recomputation
	// covered. Assignments below From were retained from earlier runs.
	From int64 `json:"from"`

	// Assignments lists the cached assignments in increasing global order.
	Assignments []Assignment `json:"assignments"`

	// Checksum is a content hash over (global, user, reason) of all cached
	// assignments. Two projections with equal checksums assign identically
	// even when their epochs differ.
	Checksum uint64 `json:"checksum"`
}
