// Package types contains the core types and interfaces shared across the
// rota library.
//
// This package is a dependency-free leaf: every other package (including the
// root rota package and the internal packages) imports it, which avoids
// import cycles while keeping a single definition for each domain type. The
// root package re-exports the common types via aliases, so library users
// normally write rota.Task, rota.Assignment, etc.
//
// The package defines:
//
//   - Value types: Task, RecurrenceRule, OccurrenceKey, CompletionRecord,
//     Assignment, Projection
//   - Collaborator interfaces: TaskSource, RankStrategy, ProjectionSink,
//     Logger, MetricsCollector
//   - Lifecycle callbacks: Hooks
//   - Sentinel errors for all engine error conditions
package types
