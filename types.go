package rota

import "github.com/ansonyc/rota/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `rota`
// package, while still providing a convenient `rota.Task`, `rota.Logger`,
// etc. for users.
type (
	Task             = types.Task
	RecurrenceRule   = types.RecurrenceRule
	Period           = types.Period
	OccurrenceKey    = types.OccurrenceKey
	CompletionRecord = types.CompletionRecord
	RecordStatus     = types.RecordStatus
	Assignment       = types.Assignment
	Projection       = types.Projection
	ProjectionState  = types.ProjectionState
)

// Re-export interfaces from the types subpackage for convenience.
type (
	TaskSource       = types.TaskSource
	RankStrategy     = types.RankStrategy
	ProjectionSink   = types.ProjectionSink
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export constants from the types subpackage.
const (
	PeriodDaily   = types.PeriodDaily
	PeriodWeekly  = types.PeriodWeekly
	PeriodMonthly = types.PeriodMonthly

	StatusPending  = types.StatusPending
	StatusApproved = types.StatusApproved
	StatusRejected = types.StatusRejected

	StateFresh = types.StateFresh
	StateStale = types.StateStale
)
