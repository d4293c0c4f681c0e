package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ansonyc/rota/types"
)

func asg(g int64, user string, day int, epoch int64) types.Assignment {
	return types.Assignment{
		Key:    types.NewOccurrenceKey(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), 1),
		Global: g,
		User:   user,
		Reason: "rotation",
		Epoch:  epoch,
	}
}

func TestCache_ReplaceFrom(t *testing.T) {
	c := NewCache()
	c.ReplaceFrom(1, 1, []types.Assignment{
		asg(1, "A", 1, 1), asg(2, "B", 2, 1), asg(3, "C", 3, 1),
	})

	t.Run("initial population", func(t *testing.T) {
		require.Equal(t, int64(1), c.Epoch())
		require.Equal(t, 3, c.Len())

		a, ok := c.Lookup(2)
		require.True(t, ok)
		require.Equal(t, "B", a.User)
	})

	t.Run("recompute retains entries below from", func(t *testing.T) {
		c.ReplaceFrom(2, 3, []types.Assignment{asg(3, "A", 3, 2), asg(4, "B", 4, 2)})

		require.Equal(t, int64(2), c.Epoch())
		require.Equal(t, int64(3), c.From())

		// 1 and 2 untouched, 3 superseded, 4 added.
		a, ok := c.Lookup(1)
		require.True(t, ok)
		require.Equal(t, "A", a.User)
		require.Equal(t, int64(1), a.Epoch)

		a, ok = c.Lookup(3)
		require.True(t, ok)
		require.Equal(t, "A", a.User)
		require.Equal(t, int64(2), a.Epoch)
	})

	t.Run("recompute drops superseded tail", func(t *testing.T) {
		c.ReplaceFrom(3, 4, nil)

		_, ok := c.Lookup(4)
		require.False(t, ok)
		require.Equal(t, int64(3), c.MaxGlobal())
	})
}

func TestCache_Checksum(t *testing.T) {
	build := func(epoch int64) *Cache {
		c := NewCache()
		c.ReplaceFrom(epoch, 1, []types.Assignment{
			asg(1, "A", 1, epoch), asg(2, "B", 2, epoch),
		})
		return c
	}

	t.Run("identical assignments hash identically across epochs", func(t *testing.T) {
		require.Equal(t, build(1).Checksum(), build(7).Checksum())
	})

	t.Run("different assignee changes the checksum", func(t *testing.T) {
		other := NewCache()
		other.ReplaceFrom(1, 1, []types.Assignment{
			asg(1, "A", 1, 1), asg(2, "C", 2, 1),
		})

		require.NotEqual(t, build(1).Checksum(), other.Checksum())
	})

	t.Run("empty cache is stable", func(t *testing.T) {
		require.Equal(t, NewCache().Checksum(), NewCache().Checksum())
	})
}

func TestCache_Snapshot(t *testing.T) {
	c := NewCache()
	c.ReplaceFrom(1, 1, []types.Assignment{
		asg(3, "C", 3, 1), asg(1, "A", 1, 1), asg(2, "B", 2, 1),
	})

	snap := c.Snapshot()

	require.Len(t, snap, 3)
	require.Equal(t, int64(1), snap[0].Global)
	require.Equal(t, int64(2), snap[1].Global)
	require.Equal(t, int64(3), snap[2].Global)
}

func TestCache_ProjectedHybrid(t *testing.T) {
	c := NewCache()
	c.ReplaceFrom(1, 1, []types.Assignment{
		asg(1, "A", 1, 1), asg(2, "A", 2, 1), asg(3, "B", 3, 1),
	})

	// Occurrence 1 is fulfilled; 2 and 3 are outstanding reservations.
	hybrid := c.ProjectedHybrid(func(g int64) bool { return g == 1 })

	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), hybrid["A"])
	require.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), hybrid["B"])

	// Fully fulfilled cache reserves nothing.
	require.Empty(t, c.ProjectedHybrid(func(int64) bool { return true }))
}
