// Package ledger implements the per-task completion ledger.
//
// The ledger partitions completion records into baseline (approved) and
// pending (awaiting approval) and exposes the provisional view — the union
// of both — which drives fairness ranking. Rejected records are retained
// for audit but excluded from every count.
//
// A Ledger is NOT safe for concurrent use; the engine serializes all access
// under the owning task's lock.
package ledger

import (
	"fmt"
	"time"

	"github.com/ansonyc/rota/types"
)

// Ledger is the completion store for a single task.
type Ledger struct {
	nextID int64
	epoch  int64

	// records in insertion order, for audit listing and deterministic scans
	records []*types.CompletionRecord
	byID    map[int64]*types.CompletionRecord
}

// New creates an empty ledger at epoch zero.
func New() *Ledger {
	return &Ledger{byID: make(map[int64]*types.CompletionRecord)}
}

// Record creates a pending completion record.
//
// Parameters:
//   - user: Completing user
//   - key: Occurrence addressed by the completion
//   - g: The occurrence's global number (derived from key by the caller)
//   - ts: Completion timestamp
//
// Returns:
//   - types.CompletionRecord: The created record (status pending)
//   - error: types.ErrDuplicateCompletion if an active (pending or approved)
//     record already exists for the same (user, occurrence)
func (l *Ledger) Record(user string, key types.OccurrenceKey, g int64, ts time.Time) (types.CompletionRecord, error) {
	for _, r := range l.records {
		if r.User == user && r.Global == g && r.Status.Active() {
			return types.CompletionRecord{}, fmt.Errorf("user %q occurrence %s: %w", user, key, types.ErrDuplicateCompletion)
		}
	}

	l.nextID++
	rec := &types.CompletionRecord{
		ID:        l.nextID,
		User:      user,
		Key:       key,
		Global:    g,
		Timestamp: ts,
		Status:    types.StatusPending,
	}
	l.records = append(l.records, rec)
	l.byID[rec.ID] = rec

	return *rec, nil
}

// Approve moves a pending record to approved (baseline).
//
// Approval does not change provisional counts — the record was already
// counting — so it never invalidates a projection by itself.
//
// Returns:
//   - types.CompletionRecord: The record after the transition
//   - error: types.ErrUnknownRecord or types.ErrRecordNotPending
func (l *Ledger) Approve(id int64) (types.CompletionRecord, error) {
	rec, err := l.pending(id)
	if err != nil {
		return types.CompletionRecord{}, err
	}

	rec.Status = types.StatusApproved

	return *rec, nil
}

// Reject marks a pending record rejected, removing it from the provisional
// view. The record is retained for audit with the supplied reason, which is
// opaque to the engine.
//
// Returns:
//   - types.CompletionRecord: The record after the transition
//   - error: types.ErrUnknownRecord or types.ErrRecordNotPending
func (l *Ledger) Reject(id int64, reason string) (types.CompletionRecord, error) {
	rec, err := l.pending(id)
	if err != nil {
		return types.CompletionRecord{}, err
	}

	rec.Status = types.StatusRejected
	rec.RejectReason = reason

	return *rec, nil
}

// Get returns a copy of the record with the given identifier.
func (l *Ledger) Get(id int64) (types.CompletionRecord, error) {
	rec, ok := l.byID[id]
	if !ok {
		return types.CompletionRecord{}, fmt.Errorf("record %d: %w", id, types.ErrUnknownRecord)
	}

	return *rec, nil
}

func (l *Ledger) pending(id int64) (*types.CompletionRecord, error) {
	rec, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, types.ErrUnknownRecord)
	}
	if rec.Status != types.StatusPending {
		return nil, fmt.Errorf("record %d is %s: %w", id, rec.Status, types.ErrRecordNotPending)
	}

	return rec, nil
}

// ProvisionalCounts returns the provisional completion count per user:
// approved plus pending records. Every listed user is present in the result,
// with zero for users without active records.
func (l *Ledger) ProvisionalCounts(users []string) map[string]int {
	counts := make(map[string]int, len(users))
	for _, u := range users {
		counts[u] = 0
	}
	for _, r := range l.records {
		if !r.Status.Active() {
			continue
		}
		if _, ok := counts[r.User]; ok {
			counts[r.User]++
		}
	}

	return counts
}

// LastCompletion returns the user's most recent active completion timestamp.
//
// Returns:
//   - time.Time: Latest timestamp among the user's pending/approved records
//   - bool: false when the user has no active completions
func (l *Ledger) LastCompletion(user string) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, r := range l.records {
		if r.User == user && r.Status.Active() && (!found || r.Timestamp.After(latest)) {
			latest = r.Timestamp
			found = true
		}
	}

	return latest, found
}

// ActiveForOccurrence reports whether any active record exists for the
// occurrence with global number g, returning the earliest one.
func (l *Ledger) ActiveForOccurrence(g int64) (types.CompletionRecord, bool) {
	for _, r := range l.records {
		if r.Global == g && r.Status.Active() {
			return *r, true
		}
	}

	return types.CompletionRecord{}, false
}

// RejectedUsersFor returns the set of users whose completion of occurrence g
// was rejected. Re-projection must not hand the occurrence back to them.
func (l *Ledger) RejectedUsersFor(g int64) map[string]bool {
	var rejected map[string]bool
	for _, r := range l.records {
		if r.Global == g && r.Status == types.StatusRejected {
			if rejected == nil {
				rejected = make(map[string]bool)
			}
			rejected[r.User] = true
		}
	}

	return rejected
}

// FirstUnfulfilled returns the smallest global number with no active
// completion record.
func (l *Ledger) FirstUnfulfilled() int64 {
	active := make(map[int64]bool, len(l.records))
	for _, r := range l.records {
		if r.Status.Active() {
			active[r.Global] = true
		}
	}

	g := int64(1)
	for active[g] {
		g++
	}

	return g
}

// Epoch returns the current ledger epoch.
func (l *Ledger) Epoch() int64 {
	return l.epoch
}

// BumpEpoch increments and returns the ledger epoch. The engine bumps the
// epoch on every mutation that invalidates the projection (unexpected
// completions and rejections, never approvals).
func (l *Ledger) BumpEpoch() int64 {
	l.epoch++
	return l.epoch
}

// Sizes returns the baseline (approved) and pending record counts.
func (l *Ledger) Sizes() (baseline, pending int) {
	for _, r := range l.records {
		switch r.Status {
		case types.StatusApproved:
			baseline++
		case types.StatusPending:
			pending++
		}
	}

	return baseline, pending
}

// Records returns a copy of every record in insertion order, including
// rejected ones, for audit listing.
func (l *Ledger) Records() []types.CompletionRecord {
	out := make([]types.CompletionRecord, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}

	return out
}
