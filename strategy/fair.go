package strategy

import (
	"slices"
	"sort"

	"github.com/ansonyc/rota/types"
)

// Reason strings reported in types.RankResult and types.Assignment.
const (
	// ReasonRotation marks assignments produced by balanced-mode rotation.
	ReasonRotation = "rotation"

	// ReasonRebalance marks assignments produced by imbalanced-mode
	// catch-up ordering.
	ReasonRebalance = "rebalance"
)

// FairRotation implements the default fairness ranking.
//
// The strategy operates in two modes depending on the provisional count
// spread (max - min over the task's users):
//
//   - Balanced (spread <= 1): the stable rotation. The assignee of
//     occurrence g is users[(g-1) mod n] in initial join order. The
//     remaining candidates are ordered by ascending hybrid timestamp
//     (absent first), then initial order, so a skipped rotation pick falls
//     through to the user who has waited longest.
//   - Imbalanced (spread > 1): users sort ascending by provisional count
//     with the same tie-break, so users with fewer completions are
//     prioritized until balance is restored.
type FairRotation struct{}

var _ types.RankStrategy = (*FairRotation)(nil)

// NewFairRotation creates the default fairness strategy.
//
// Returns:
//   - *FairRotation: Initialized strategy
//
// Example:
//
//	eng, err := rota.New(&cfg, src, rota.WithStrategy(strategy.NewFairRotation()))
func NewFairRotation() *FairRotation {
	return &FairRotation{}
}

// Rank computes the assignment order for one occurrence.
//
// Parameters:
//   - in: Complete ranking input (users, provisional counts, hybrid
//     timestamps, global occurrence number)
//
// Returns:
//   - types.RankResult: Candidate order and the mode that produced it
//   - error: types.ErrNoAssignableUsers when the user list is empty
func (f *FairRotation) Rank(in types.RankInput) (types.RankResult, error) {
	n := len(in.Users)
	if n == 0 {
		return types.RankResult{}, types.ErrNoAssignableUsers
	}

	if spread(in) <= 1 {
		start := int((in.Global - 1) % int64(n))
		order := make([]string, 0, n)
		order = append(order, in.Users[start])

		rest := make([]string, 0, n-1)
		for i, u := range in.Users {
			if i != start {
				rest = append(rest, u)
			}
		}
		sortByHybrid(rest, in)

		return types.RankResult{Order: append(order, rest...), Reason: ReasonRotation}, nil
	}

	order := slices.Clone(in.Users)
	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := in.Counts[order[i]], in.Counts[order[j]]
		if ci != cj {
			return ci < cj
		}

		return hybridLess(in, order[i], order[j])
	})

	return types.RankResult{Order: order, Reason: ReasonRebalance}, nil
}

// spread returns max(count) - min(count) over the task's users. Users with
// no recorded completions count as zero.
func spread(in types.RankInput) int {
	lo, hi := in.Counts[in.Users[0]], in.Counts[in.Users[0]]
	for _, u := range in.Users[1:] {
		c := in.Counts[u]
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}

	return hi - lo
}

// sortByHybrid stably sorts users by ascending hybrid timestamp with absent
// timestamps first. The input must already be in initial order so the stable
// sort preserves initial-order ties.
func sortByHybrid(users []string, in types.RankInput) {
	sort.SliceStable(users, func(i, j int) bool {
		return hybridLess(in, users[i], users[j])
	})
}

// hybridLess reports whether a should rank before b by hybrid timestamp.
// An absent timestamp sorts first: an engaged user who has never been
// assigned anything gets top priority.
func hybridLess(in types.RankInput, a, b string) bool {
	ta, okA := in.Hybrid[a]
	tb, okB := in.Hybrid[b]

	switch {
	case !okA && !okB:
		return false // tie, stable sort keeps initial order
	case !okA:
		return true
	case !okB:
		return false
	default:
		return ta.Before(tb)
	}
}
