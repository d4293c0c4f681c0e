package types

import "time"

// RecordStatus is the lifecycle status of a completion record.
//
// Records are created pending and move to exactly one terminal status:
//
//	pending → approved
//	pending → rejected
//
// Terminal records are never re-opened.
type RecordStatus int

const (
	// StatusPending indicates the completion awaits an approval decision.
	// Pending records count toward provisional totals.
	StatusPending RecordStatus = iota

	// StatusApproved indicates the completion is final (baseline).
	StatusApproved

	// StatusRejected indicates the completion was rejected. Rejected records
	// are retained for audit but excluded from all counts.
	StatusRejected
)

// String returns the string representation of the status.
func (s RecordStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal state.
func (s RecordStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Active reports whether the record counts toward provisional totals
// (pending or approved).
func (s RecordStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// CompletionRecord is one user's claim of having completed one occurrence.
type CompletionRecord struct {
	// ID is the ledger-local record identifier, assigned on creation.
	ID int64 `json:"id"`

	// User is the completing user.
	User string `json:"user"`

	// Key addresses the completed occurrence.
	Key OccurrenceKey `json:"key"`

	// Global is the occurrence's global number, derived from Key when the
	// record is created.
	Global int64 `json:"global"`

	// Timestamp is when the completion was reported.
	Timestamp time.Time `json:"timestamp"`

	// Status is the record's lifecycle status.
	Status RecordStatus `json:"status"`

	// RejectReason is the approver-supplied reason for a rejection. It is
	// opaque to the engine and stored for audit only.
	RejectReason string `json:"rejectReason,omitempty"`
}
