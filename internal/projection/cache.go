// Package projection implements the epoch-tagged projection cache and the
// bounded-horizon projector.
//
// The cache stores the engine's last-computed mapping from occurrence to
// assigned user together with the ledger epoch it was computed from. A
// recomputation replaces entries from its starting occurrence forward and
// leaves earlier entries untouched, so already-resolved history survives
// rejections and unexpected completions intact.
//
// Neither type is safe for concurrent use; the engine serializes all access
// under the owning task's lock.
package projection

import (
	"encoding/binary"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ansonyc/rota/types"
)

// Cache is the per-task assignment cache.
type Cache struct {
	epoch   int64
	from    int64 // first global number covered by the latest recomputation
	entries map[int64]types.Assignment
}

// NewCache creates an empty cache at epoch zero.
func NewCache() *Cache {
	return &Cache{entries: make(map[int64]types.Assignment)}
}

// Epoch returns the ledger epoch of the latest recomputation.
func (c *Cache) Epoch() int64 {
	return c.epoch
}

// From returns the first global number the latest recomputation covered.
// Entries below From were retained from earlier epochs. Zero means the cache
// was never populated.
func (c *Cache) From() int64 {
	return c.from
}

// Len returns the number of cached assignments.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Lookup returns the cached assignment for global number g.
//
// The caller is responsible for epoch validation: entries at or above From
// are only current when Epoch matches the ledger epoch, while entries below
// From are resolved history and valid regardless.
func (c *Cache) Lookup(g int64) (types.Assignment, bool) {
	a, ok := c.entries[g]
	return a, ok
}

// ReplaceFrom supersedes all cached assignments at or after from with the
// given assignments and tags the cache with the new epoch. Entries below
// from are retained untouched.
func (c *Cache) ReplaceFrom(epoch, from int64, assignments []types.Assignment) {
	for g := range c.entries {
		if g >= from {
			delete(c.entries, g)
		}
	}
	for _, a := range assignments {
		c.entries[a.Global] = a
	}
	c.epoch = epoch
	c.from = from
}

// MaxGlobal returns the highest cached global number, or zero when empty.
func (c *Cache) MaxGlobal() int64 {
	var maxG int64
	for g := range c.entries {
		if g > maxG {
			maxG = g
		}
	}

	return maxG
}

// Snapshot returns all cached assignments in increasing global order.
func (c *Cache) Snapshot() []types.Assignment {
	out := make([]types.Assignment, 0, len(c.entries))
	for _, a := range c.entries {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Global < out[j].Global })

	return out
}

// Checksum returns a content hash over (global, user, reason) of all cached
// assignments in increasing global order. Epochs are deliberately excluded:
// two projections that assign identically hash identically, which lets the
// engine suppress change notifications for no-op recomputations.
func (c *Cache) Checksum() uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, a := range c.Snapshot() {
		binary.LittleEndian.PutUint64(buf[:], uint64(a.Global))
		_, _ = h.Write(buf[:])
		_, _ = h.Write([]byte(a.User))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(a.Reason))
		_, _ = h.Write([]byte{0})
	}

	return h.Sum64()
}

// ProjectedHybrid returns, per user, the latest occurrence date among cached
// assignments that are still unfulfilled. These dates feed the hybrid
// timestamp tie-break: a projected assignment "reserves" recency for its
// user before it is ever completed.
//
// Parameters:
//   - fulfilled: Reports whether the occurrence already has an active
//     completion record
func (c *Cache) ProjectedHybrid(fulfilled func(g int64) bool) map[string]time.Time {
	hybrid := make(map[string]time.Time)
	for g, a := range c.entries {
		if fulfilled(g) {
			continue
		}
		if cur, ok := hybrid[a.User]; !ok || a.Key.Date.After(cur) {
			hybrid[a.User] = a.Key.Date
		}
	}

	return hybrid
}
