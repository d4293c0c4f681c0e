package rota_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ansonyc/rota"
	"github.com/ansonyc/rota/source"
	rotatest "github.com/ansonyc/rota/testing"
	"github.com/ansonyc/rota/types"
)

var taskStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dailyTask(id string, users ...string) types.Task {
	return types.Task{
		ID:        id,
		Users:     users,
		Rule:      types.RecurrenceRule{Period: types.PeriodDaily, PerPeriod: 1},
		StartDate: taskStart,
	}
}

// day returns the occurrence key for the nth day of the task, 1-based.
func day(n int) types.OccurrenceKey {
	return types.NewOccurrenceKey(taskStart.AddDate(0, 0, n-1), 1)
}

// dayTS returns a completion timestamp within the nth day.
func dayTS(n int) time.Time {
	return taskStart.AddDate(0, 0, n-1).Add(18 * time.Hour)
}

func newTestEngine(t *testing.T, cfg *rota.Config, tasks []types.Task, opts ...rota.Option) *rota.Engine {
	t.Helper()

	opts = append([]rota.Option{
		rota.WithLogger(rotatest.NewTestLogger(t)),
		rota.WithClock(func() time.Time { return taskStart.Add(9 * time.Hour) }),
	}, opts...)

	eng, err := rota.New(cfg, source.NewStatic(tasks...), opts...)
	require.NoError(t, err)

	return eng
}

func TestNew(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := rota.New(&rota.Config{}, nil)
		require.ErrorIs(t, err, rota.ErrTaskSourceRequired)
	})

	t.Run("nil strategy", func(t *testing.T) {
		_, err := rota.New(&rota.Config{}, source.NewStatic(), rota.WithStrategy(nil))
		require.ErrorIs(t, err, rota.ErrStrategyRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := rota.New(&rota.Config{Horizon: -1}, source.NewStatic())
		require.ErrorIs(t, err, rota.ErrInvalidConfig)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		_, err := rota.New(nil, source.NewStatic())
		require.NoError(t, err)
	})
}

func TestEngine_ProjectAhead(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	first, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)
	require.Len(t, first, 6)

	t.Run("empty ledger rotates in initial order", func(t *testing.T) {
		users := make([]string, 0, len(first))
		for _, a := range first {
			users = append(users, a.User)
		}
		require.Equal(t, []string{"alice", "bob", "carol", "alice", "bob", "carol"}, users)
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		again, err := eng.ProjectAhead(ctx, "dishes", 6)
		require.NoError(t, err)
		require.Equal(t, first, again)
	})

	t.Run("oversized horizon truncates to MaxHorizon", func(t *testing.T) {
		eng := newTestEngine(t, &rota.Config{Horizon: 5, MaxHorizon: 10},
			[]types.Task{dailyTask("dishes", "alice", "bob")})

		out, err := eng.ProjectAhead(ctx, "dishes", 50)
		require.NoError(t, err)
		require.Len(t, out, 10)
	})
}

func TestEngine_ExpectedCompletion(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	_, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)

	// Day 1 is projected to alice; her completion matches the projection.
	rec, err := eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
	require.NoError(t, err)
	require.Equal(t, types.StatusPending, rec.Status)

	t.Run("no epoch bump, no state change", func(t *testing.T) {
		require.Equal(t, int64(0), eng.Epoch("dishes"))
		require.Equal(t, types.StateFresh, eng.State("dishes"))
	})

	t.Run("remaining assignments untouched", func(t *testing.T) {
		a, err := eng.GetAssignment(ctx, "dishes", day(2))
		require.NoError(t, err)
		require.Equal(t, "bob", a.User)
		require.Equal(t, int64(0), a.Epoch)
	})
}

func TestEngine_UnexpectedCompletion(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	_, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)

	_, err = eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
	require.NoError(t, err)

	// Day 2 is projected to bob, but carol completes it.
	_, err = eng.RecordCompletion(ctx, "dishes", "carol", day(2), dayTS(2), true)
	require.NoError(t, err)

	t.Run("epoch bumped and recomputed eagerly", func(t *testing.T) {
		require.Equal(t, int64(1), eng.Epoch("dishes"))
		require.Equal(t, types.StateFresh, eng.State("dishes"))
	})

	t.Run("rotation continues from the new counts", func(t *testing.T) {
		// Counts are now alice=1, bob=0, carol=1 (spread 1), so day 3 keeps
		// its rotation slot.
		a, err := eng.GetAssignment(ctx, "dishes", day(3))
		require.NoError(t, err)
		require.Equal(t, "carol", a.User)
		require.Equal(t, int64(1), a.Epoch)

		// Carol's projected day 3 pushes her count ahead, so day 4 goes to
		// the user furthest behind.
		a, err = eng.GetAssignment(ctx, "dishes", day(4))
		require.NoError(t, err)
		require.Equal(t, "bob", a.User)
	})
}

func TestEngine_Rejection(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	_, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)

	_, err = eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
	require.NoError(t, err)
	bobRec, err := eng.RecordCompletion(ctx, "dishes", "bob", day(2), dayTS(2), true)
	require.NoError(t, err)
	_, err = eng.RecordCompletion(ctx, "dishes", "carol", day(3), dayTS(3), true)
	require.NoError(t, err)
	require.Equal(t, int64(0), eng.Epoch("dishes"))

	rejected, err := eng.Reject(ctx, "dishes", bobRec.ID, "not actually done")
	require.NoError(t, err)
	require.Equal(t, types.StatusRejected, rejected.Status)
	require.Equal(t, "not actually done", rejected.RejectReason)

	t.Run("occurrence is not handed back to the rejected user", func(t *testing.T) {
		a, err := eng.GetAssignment(ctx, "dishes", day(2))
		require.NoError(t, err)
		require.NotEqual(t, "bob", a.User)
		// Alice completed earliest, so the tie-break prefers her.
		require.Equal(t, "alice", a.User)
	})

	t.Run("surrounding resolutions unchanged", func(t *testing.T) {
		a, err := eng.GetAssignment(ctx, "dishes", day(1))
		require.NoError(t, err)
		require.Equal(t, "alice", a.User)

		// Day 3 stays resolved by carol's still-pending completion.
		_, err = eng.GetAssignment(ctx, "dishes", day(3))
		require.ErrorIs(t, err, rota.ErrNoProjection)
		require.ErrorContains(t, err, "carol")
	})

	t.Run("rejected record retained for audit", func(t *testing.T) {
		records := eng.Records("dishes")
		require.Len(t, records, 3)
		require.Equal(t, types.StatusRejected, records[1].Status)
	})

	t.Run("rejected user may re-record the occurrence", func(t *testing.T) {
		_, err := eng.RecordCompletion(ctx, "dishes", "bob", day(2), dayTS(2), true)
		require.NoError(t, err)
	})
}

func TestEngine_Approve(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob")})

	_, err := eng.ProjectAhead(ctx, "dishes", 4)
	require.NoError(t, err)

	rec, err := eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
	require.NoError(t, err)
	epoch := eng.Epoch("dishes")

	approved, err := eng.Approve(ctx, "dishes", rec.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusApproved, approved.Status)

	t.Run("approval never invalidates the projection", func(t *testing.T) {
		require.Equal(t, epoch, eng.Epoch("dishes"))
		require.Equal(t, types.StateFresh, eng.State("dishes"))
	})

	t.Run("terminal records cannot transition again", func(t *testing.T) {
		_, err := eng.Approve(ctx, "dishes", rec.ID)
		require.ErrorIs(t, err, rota.ErrRecordNotPending)
		_, err = eng.Reject(ctx, "dishes", rec.ID, "too late")
		require.ErrorIs(t, err, rota.ErrRecordNotPending)
	})
}

func TestEngine_FairnessConvergence(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	// Everyone completes exactly as projected for 30 days.
	for n := 1; n <= 30; n++ {
		a, err := eng.GetAssignment(ctx, "dishes", day(n))
		require.NoError(t, err)

		_, err = eng.RecordCompletion(ctx, "dishes", a.User, day(n), dayTS(n), false)
		require.NoError(t, err)
	}

	t.Run("expected completions never bump the epoch", func(t *testing.T) {
		require.Equal(t, int64(0), eng.Epoch("dishes"))
	})

	t.Run("counts stay within one of each other", func(t *testing.T) {
		counts := map[string]int{}
		for _, r := range eng.Records("dishes") {
			require.Equal(t, types.StatusApproved, r.Status)
			counts[r.User]++
		}

		minC, maxC := 30, 0
		for _, u := range []string{"alice", "bob", "carol"} {
			if counts[u] < minC {
				minC = counts[u]
			}
			if counts[u] > maxC {
				maxC = counts[u]
			}
		}
		require.LessOrEqual(t, maxC-minC, 1)
	})
}

func TestEngine_ImbalanceCatchUp(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	for n := 1; n <= 3; n++ {
		_, err := eng.RecordCompletion(ctx, "dishes", "alice", day(n), dayTS(n), false)
		require.NoError(t, err)
	}
	_, err := eng.RecordCompletion(ctx, "dishes", "carol", day(4), dayTS(4), false)
	require.NoError(t, err)

	// alice=3, bob=0, carol=1: the user furthest behind catches up first.
	out, err := eng.ProjectAhead(ctx, "dishes", 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, "bob", out[0].User)
	require.Equal(t, "rebalance", out[0].Reason)
	require.Equal(t, "carol", out[1].User)
	require.Equal(t, "bob", out[2].User)
}

func TestEngine_OutOfOrderFirstCompletion(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")})

	// The task's very first mutation completes day 3 while nothing has been
	// projected yet, leaving days 1-2 neither cached nor resolved.
	_, err := eng.RecordCompletion(ctx, "dishes", "carol", day(3), dayTS(3), true)
	require.NoError(t, err)

	out, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)
	require.Len(t, out, 6)

	t.Run("projection starts at the first unfulfilled occurrence", func(t *testing.T) {
		require.Equal(t, int64(1), out[0].Global)
		require.Equal(t, int64(2), out[1].Global)
		// Day 3 is resolved by carol's completion, so the projection jumps
		// straight to day 4.
		require.Equal(t, int64(4), out[2].Global)
	})

	t.Run("repeated calls stay gap-free", func(t *testing.T) {
		again, err := eng.ProjectAhead(ctx, "dishes", 6)
		require.NoError(t, err)
		require.Equal(t, out, again)
	})

	t.Run("the skipped days are assignable", func(t *testing.T) {
		a, err := eng.GetAssignment(ctx, "dishes", day(1))
		require.NoError(t, err)
		require.Equal(t, out[0].User, a.User)
	})
}

func TestEngine_BeyondHorizon(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, &rota.Config{Horizon: 5, MaxHorizon: 10},
		[]types.Task{dailyTask("dishes", "alice", "bob")})

	t.Run("lookup inside the bound extends coverage", func(t *testing.T) {
		a, err := eng.GetAssignment(ctx, "dishes", day(10))
		require.NoError(t, err)
		require.Equal(t, int64(10), a.Global)
	})

	t.Run("lookup past the bound fails", func(t *testing.T) {
		_, err := eng.GetAssignment(ctx, "dishes", day(11))
		require.ErrorIs(t, err, rota.ErrBeyondHorizon)
	})
}

func TestEngine_HistoricalLookup(t *testing.T) {
	ctx := context.Background()
	now := taskStart.AddDate(0, 0, 9).Add(9 * time.Hour) // 2024-01-10
	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")},
		rota.WithClock(func() time.Time { return now }))

	t.Run("never recomputes for the past", func(t *testing.T) {
		_, err := eng.GetAssignment(ctx, "dishes", day(3))
		require.ErrorIs(t, err, rota.ErrNoProjection)
		require.Equal(t, types.StateFresh, eng.State("dishes"))
	})

	t.Run("served from cache once projected", func(t *testing.T) {
		_, err := eng.ProjectAhead(ctx, "dishes", 15)
		require.NoError(t, err)

		a, err := eng.GetAssignment(ctx, "dishes", day(3))
		require.NoError(t, err)
		require.Equal(t, "carol", a.User)
	})
}

func TestEngine_Errors(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, []types.Task{
		dailyTask("dishes", "alice", "bob"),
		dailyTask("ghost-town"),
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := eng.ProjectAhead(ctx, "laundry", 5)
		require.ErrorIs(t, err, rota.ErrUnknownTask)
	})

	t.Run("user not assigned", func(t *testing.T) {
		_, err := eng.RecordCompletion(ctx, "dishes", "mallory", day(1), dayTS(1), true)
		require.ErrorIs(t, err, rota.ErrUserNotAssigned)
	})

	t.Run("occurrence before start", func(t *testing.T) {
		before := types.NewOccurrenceKey(taskStart.AddDate(0, 0, -1), 1)
		_, err := eng.GetAssignment(ctx, "dishes", before)
		require.ErrorIs(t, err, rota.ErrInvalidOccurrence)
	})

	t.Run("duplicate completion", func(t *testing.T) {
		_, err := eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
		require.NoError(t, err)
		_, err = eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
		require.ErrorIs(t, err, rota.ErrDuplicateCompletion)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := eng.Approve(ctx, "dishes", 999)
		require.ErrorIs(t, err, rota.ErrUnknownRecord)
	})

	t.Run("no assignable users", func(t *testing.T) {
		_, err := eng.ProjectAhead(ctx, "ghost-town", 5)
		require.ErrorIs(t, err, rota.ErrNoAssignableUsers)
		_, err = eng.RecordCompletion(ctx, "ghost-town", "alice", day(1), dayTS(1), true)
		require.ErrorIs(t, err, rota.ErrNoAssignableUsers)
	})
}

type captureSink struct {
	published []types.Projection
}

func (s *captureSink) PublishProjection(_ context.Context, p types.Projection) error {
	s.published = append(s.published, p)
	return nil
}

func TestEngine_HooksAndSink(t *testing.T) {
	ctx := context.Background()

	sink := &captureSink{}
	var changed, transitions int
	hooks := &rota.Hooks{
		OnProjectionChanged: func(_ context.Context, _ string, _, _ int64) error {
			changed++
			return nil
		},
		OnStateChanged: func(_ context.Context, _ string, _, _ types.ProjectionState) error {
			transitions++
			return nil
		},
	}

	eng := newTestEngine(t, nil, []types.Task{dailyTask("dishes", "alice", "bob", "carol")},
		rota.WithHooks(hooks), rota.WithSink(sink))

	_, err := eng.ProjectAhead(ctx, "dishes", 6)
	require.NoError(t, err)

	t.Run("initial projection publishes once", func(t *testing.T) {
		require.Equal(t, 1, changed)
		require.Equal(t, 0, transitions)
		require.Len(t, sink.published, 1)
		require.Equal(t, int64(0), sink.published[0].Epoch)
	})

	// Unexpected completion: day 2 is projected to bob.
	_, err = eng.RecordCompletion(ctx, "dishes", "carol", day(2), dayTS(2), true)
	require.NoError(t, err)

	t.Run("unexpected completion publishes the new projection", func(t *testing.T) {
		require.Equal(t, 2, changed)
		require.Equal(t, 2, transitions) // fresh→stale, stale→fresh
		require.Len(t, sink.published, 2)

		p := sink.published[1]
		require.Equal(t, "dishes", p.TaskID)
		require.Equal(t, int64(1), p.Epoch)
		require.Equal(t, int64(2), p.From)
	})

	// Expected completion: day 1 is still projected to alice.
	_, err = eng.RecordCompletion(ctx, "dishes", "alice", day(1), dayTS(1), true)
	require.NoError(t, err)

	t.Run("expected completion publishes nothing", func(t *testing.T) {
		require.Equal(t, 2, changed)
		require.Len(t, sink.published, 2)
	})
}
