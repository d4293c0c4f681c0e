package rota

import "github.com/ansonyc/rota/types"

// Sentinel errors returned by the Engine, re-exported from the types
// subpackage for convenient errors.Is checks against the root package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrTaskSourceRequired is returned when the task source is nil.
	ErrTaskSourceRequired = types.ErrTaskSourceRequired

	// ErrStrategyRequired is returned when the rank strategy is nil.
	ErrStrategyRequired = types.ErrStrategyRequired

	// ErrUnknownTask is returned when the task source has no task for the
	// requested identifier.
	ErrUnknownTask = types.ErrUnknownTask

	// ErrNoAssignableUsers is returned when an assignment is requested for a
	// task with an empty user list.
	ErrNoAssignableUsers = types.ErrNoAssignableUsers

	// ErrUserNotAssigned is returned when a completion is recorded by a user
	// that is not on the task's user list.
	ErrUserNotAssigned = types.ErrUserNotAssigned

	// ErrInvalidOccurrence is returned for malformed schedule queries.
	ErrInvalidOccurrence = types.ErrInvalidOccurrence

	// ErrDuplicateCompletion is returned when re-recording an active
	// completion.
	ErrDuplicateCompletion = types.ErrDuplicateCompletion

	// ErrRecordNotPending is returned when approving or rejecting a terminal
	// record.
	ErrRecordNotPending = types.ErrRecordNotPending

	// ErrUnknownRecord is returned when no record exists for the identifier.
	ErrUnknownRecord = types.ErrUnknownRecord

	// ErrNoProjection is returned for occurrences with no cached assignment
	// when recomputation is not permitted.
	ErrNoProjection = types.ErrNoProjection

	// ErrBeyondHorizon is returned for occurrences beyond the maximum
	// projection horizon.
	ErrBeyondHorizon = types.ErrBeyondHorizon
)
