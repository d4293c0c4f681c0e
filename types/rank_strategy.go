package types

import "time"

// RankInput is the complete input to a ranking computation.
//
// Counts and Hybrid are keyed by user; a user missing from Counts has a
// provisional count of zero, and a user missing from Hybrid has never
// completed anything nor been projected (absent timestamps win tie-breaks).
type RankInput struct {
	// Users is the task's user list in initial join order.
	Users []string

	// Counts maps each user to their provisional completion count
	// (baseline + pending), including assignments already made earlier in
	// the same projection run.
	Counts map[string]int

	// Hybrid maps each user to their hybrid timestamp: the later of the
	// user's most recent actual completion and the date of their most recent
	// projected-but-unfulfilled assignment.
	Hybrid map[string]time.Time

	// Global is the global number of the occurrence being assigned.
	Global int64
}

// RankResult is the output of a ranking computation.
type RankResult struct {
	// Order lists every user from most to least preferred for this
	// occurrence. The assignee is the first entry unless the caller must
	// skip candidates (e.g. users whose completion of this occurrence was
	// rejected).
	Order []string

	// Reason describes the mode that produced the order ("rotation" or
	// "rebalance").
	Reason string
}

// RankStrategy produces a deterministic assignment order for one occurrence.
//
// The engine calls Rank once per occurrence during projection, in increasing
// global-number order, feeding each occurrence's assignment back into the
// counts and hybrid timestamps of the next call.
//
// Strategy implementations must:
//   - Be deterministic (same input → same output)
//   - Be pure (no side effects, no retained state)
//   - Handle edge cases (empty user list, missing counts/timestamps)
//   - Run quickly (called once per occurrence on the projection path)
type RankStrategy interface {
	// Rank computes the assignment order for one occurrence.
	//
	// Parameters:
	//   - in: Complete ranking input
	//
	// Returns:
	//   - RankResult: Full candidate order plus the mode that produced it
	//   - error: ErrNoAssignableUsers when in.Users is empty
	Rank(in RankInput) (RankResult, error)
}
