package types

import "errors"

// Sentinel errors for the rota library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components use these sentinels for known error conditions
// and wrap external errors with context using fmt.Errorf("...: %w", err).
//
// All error conditions internal to the engine are local and recoverable;
// collaborator infrastructure failures surface as the collaborator's own
// error types, wrapped.

// Engine errors - Public API errors returned by the Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTaskSourceRequired is returned when the task source is nil.
	ErrTaskSourceRequired = errors.New("task source is required")

	// ErrStrategyRequired is returned when the rank strategy is nil.
	ErrStrategyRequired = errors.New("rank strategy is required")

	// ErrUnknownTask is returned when the task source has no task for the
	// requested identifier.
	ErrUnknownTask = errors.New("unknown task")

	// ErrNoAssignableUsers is returned when an assignment is requested for a
	// task with an empty user list.
	ErrNoAssignableUsers = errors.New("no assignable users")

	// ErrUserNotAssigned is returned when a completion is recorded by a user
	// that is not on the task's user list.
	ErrUserNotAssigned = errors.New("user not assigned to task")
)

// Schedule errors - Returned by the schedule calendar.
var (
	// ErrInvalidOccurrence is returned for a malformed schedule query: a date
	// before the task's start date, an index outside 1..PerPeriod, or an
	// invalid recurrence rule.
	ErrInvalidOccurrence = errors.New("invalid occurrence")
)

// Ledger errors - Returned by completion ledger operations.
var (
	// ErrDuplicateCompletion is returned when an active (pending or approved)
	// record already exists for the same user and occurrence.
	ErrDuplicateCompletion = errors.New("duplicate completion")

	// ErrRecordNotPending is returned when approving or rejecting a record
	// that is not pending.
	ErrRecordNotPending = errors.New("record is not pending")

	// ErrUnknownRecord is returned when no record exists for the identifier.
	ErrUnknownRecord = errors.New("unknown record")
)

// Projection errors - Returned by projection cache lookups.
//
// Staleness itself is not an error: the engine tracks it through the
// Fresh/Stale projection state and recomputes before serving callers.
var (
	// ErrNoProjection is returned when no cached assignment exists for the
	// requested occurrence and recomputation is not permitted (historical
	// lookups never trigger recomputation).
	ErrNoProjection = errors.New("no projection for occurrence")

	// ErrBeyondHorizon is returned when the requested occurrence lies beyond
	// the configured maximum projection horizon.
	ErrBeyondHorizon = errors.New("occurrence beyond projection horizon")
)
