package projection

import (
	"fmt"
	"time"

	"github.com/ansonyc/rota/internal/ledger"
	"github.com/ansonyc/rota/schedule"
	"github.com/ansonyc/rota/types"
)

// Projector computes bounded-horizon projections for one task at a time.
//
// Occurrences are walked in increasing global-number order and the ranker is
// consulted once per occurrence, so each occurrence's provisional counts and
// hybrid timestamps reflect all strictly-earlier occurrences assigned in the
// same run. Rebalancing therefore works within the horizon itself, not just
// from historical completions.
type Projector struct {
	strategy types.RankStrategy
	logger   types.Logger
}

// NewProjector creates a projector using the given rank strategy.
func NewProjector(strategy types.RankStrategy, logger types.Logger) *Projector {
	return &Projector{strategy: strategy, logger: logger}
}

// Project computes assignments for up to horizon unfulfilled occurrences
// starting at global number from.
//
// Occurrences that already have an active completion are skipped: they are
// history, not assignable work. Users whose completion of an occurrence was
// rejected are skipped for that occurrence, so a rejected assignment is
// never reproduced.
//
// Parameters:
//   - task: Task snapshot (users, rule, start date)
//   - led: The task's completion ledger
//   - cache: The task's current cache; retained entries below from supply
//     projected-recency hybrid timestamps
//   - from: First global number to (re)compute
//   - horizon: Maximum number of assignments to produce
//   - epoch: Ledger epoch to tag the assignments with
//
// Returns:
//   - []types.Assignment: Assignments in increasing global order
//   - error: types.ErrNoAssignableUsers for an empty user list, or a wrapped
//     schedule/strategy error
func (p *Projector) Project(
	task types.Task,
	led *ledger.Ledger,
	cache *Cache,
	from int64,
	horizon int,
	epoch int64,
) ([]types.Assignment, error) {
	if len(task.Users) == 0 {
		return nil, fmt.Errorf("task %q: %w", task.ID, types.ErrNoAssignableUsers)
	}

	counts := led.ProvisionalCounts(task.Users)
	hybrid := seedHybrid(task, led, cache, from)

	assignments := make([]types.Assignment, 0, horizon)
	for g := from; len(assignments) < horizon; g++ {
		if _, done := led.ActiveForOccurrence(g); done {
			continue
		}

		key, err := schedule.KeyForGlobal(task.Rule, task.StartDate, g)
		if err != nil {
			return nil, fmt.Errorf("task %q occurrence %d: %w", task.ID, g, err)
		}

		res, err := p.strategy.Rank(types.RankInput{
			Users:  task.Users,
			Counts: counts,
			Hybrid: hybrid,
			Global: g,
		})
		if err != nil {
			return nil, fmt.Errorf("task %q occurrence %d: %w", task.ID, g, err)
		}

		assignee := pickAssignee(res.Order, led.RejectedUsersFor(g))
		assignments = append(assignments, types.Assignment{
			Key:    key,
			Global: g,
			User:   assignee,
			Reason: res.Reason,
			Epoch:  epoch,
		})

		// Feed this assignment back into the next occurrence's inputs.
		counts[assignee]++
		if cur, ok := hybrid[assignee]; !ok || key.Date.After(cur) {
			hybrid[assignee] = key.Date
		}
	}

	p.logger.Debug("projection computed",
		"task_id", task.ID, "from", from, "count", len(assignments), "epoch", epoch)

	return assignments, nil
}

// seedHybrid builds the initial hybrid timestamps: the later of each user's
// last actual completion and the date of their latest still-unfulfilled
// projected assignment retained below the recompute point.
func seedHybrid(task types.Task, led *ledger.Ledger, cache *Cache, from int64) map[string]time.Time {
	hybrid := make(map[string]time.Time, len(task.Users))
	for _, u := range task.Users {
		if ts, ok := led.LastCompletion(u); ok {
			hybrid[u] = ts
		}
	}

	projected := cache.ProjectedHybrid(func(g int64) bool {
		if g >= from {
			return true // being recomputed in this run, not a reservation
		}
		_, done := led.ActiveForOccurrence(g)
		return done
	})
	for u, d := range projected {
		if cur, ok := hybrid[u]; !ok || d.After(cur) {
			hybrid[u] = d
		}
	}

	return hybrid
}

// pickAssignee returns the first candidate without a rejected completion for
// this occurrence, falling back to the top candidate when every user was
// rejected.
func pickAssignee(order []string, rejected map[string]bool) string {
	if len(rejected) > 0 {
		for _, u := range order {
			if !rejected[u] {
				return u
			}
		}
	}

	return order[0]
}
