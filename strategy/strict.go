package strategy

import "github.com/ansonyc/rota/types"

// StrictRotation implements pure initial-order rotation.
type StrictRotation struct{}

var _ types.RankStrategy = (*StrictRotation)(nil)

// NewStrictRotation creates a new strict rotation strategy.
//
// The strategy assigns occurrence g to users[(g-1) mod n] and orders the
// remaining candidates by continuing around the rotation. Completion counts
// and hybrid timestamps are ignored, so the roster is fully predictable but
// never rebalances after missed or reassigned occurrences.
//
// Returns:
//   - *StrictRotation: Initialized strategy
func NewStrictRotation() *StrictRotation {
	return &StrictRotation{}
}

// Rank computes the rotation order for one occurrence.
//
// Parameters:
//   - in: Ranking input; only Users and Global are consulted
//
// Returns:
//   - types.RankResult: Rotation order starting at users[(g-1) mod n]
//   - error: types.ErrNoAssignableUsers when the user list is empty
func (s *StrictRotation) Rank(in types.RankInput) (types.RankResult, error) {
	n := len(in.Users)
	if n == 0 {
		return types.RankResult{}, types.ErrNoAssignableUsers
	}

	start := int((in.Global - 1) % int64(n))
	order := make([]string, 0, n)
	for i := range n {
		order = append(order, in.Users[(start+i)%n])
	}

	return types.RankResult{Order: order, Reason: ReasonRotation}, nil
}
