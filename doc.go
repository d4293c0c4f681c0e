// Package rota provides a fair-rotation assignment engine for recurring
// tasks shared by several people.
//
// Rota decides who is responsible for each future occurrence of a recurring
// task, keeping completion counts balanced over time and remaining stable
// under partial-approval workflows. Completions are recorded as pending,
// then approved or rejected; pending completions immediately affect who is
// assigned next, so nobody gets double-booked while an approval is waiting.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/ansonyc/rota"
//	    "github.com/ansonyc/rota/source"
//	)
//
//	src := source.NewStatic(types.Task{
//	    ID:        "dishes",
//	    Users:     []string{"alice", "bob", "carol"},
//	    Rule:      types.RecurrenceRule{Period: types.PeriodDaily, PerPeriod: 1},
//	    StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
//	})
//
//	eng, err := rota.New(&rota.Config{}, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	assignments, err := eng.ProjectAhead(ctx, "dishes", 7)
//
// # Key Features
//
//   - Global occurrence numbering: a continuous, gap-free sequence across
//     day, week, and month boundaries
//   - Fairness ranking: stable rotation while counts are balanced, catch-up
//     ordering when they drift apart
//   - Epoch-tagged projection cache: recomputation is a deliberate, bounded
//     transition, never a side effect of read access
//   - Expected-completion optimization: a completion by the projected
//     assignee changes nothing and costs nothing
//
// # Architecture
//
// Each task's rotation state moves between two states:
//
//	Fresh ⇄ Stale
//
// Unexpected completions and rejections bump the ledger epoch, mark the task
// Stale, and trigger a bounded recomputation from the affected occurrence
// forward. Approvals never invalidate a projection: the pending record was
// already counted.
//
// # Advanced Usage
//
// Custom strategy with options:
//
//	import (
//	    "github.com/ansonyc/rota"
//	    "github.com/ansonyc/rota/strategy"
//	)
//
//	hooks := &rota.Hooks{
//	    OnProjectionChanged: func(ctx context.Context, taskID string, from, epoch int64) error {
//	        // Refresh the UI for this task.
//	        return nil
//	    },
//	}
//
//	eng, err := rota.New(&cfg, src,
//	    rota.WithStrategy(strategy.NewStrictRotation()),
//	    rota.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package rota
