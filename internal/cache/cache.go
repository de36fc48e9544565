// Package cache provides the injected population-grid cache. It replaces
// what would otherwise be a module-level map: construct one per process and
// hand it to the data source adapter.
package cache

import (
	"math"
	"sync"
	"time"

	"github.com/blastmap/engine/internal/model"
)

// Key identifies a cached grid by rounded coordinate and search radius.
type Key struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// NewKey rounds coordinates to 4 decimal places (~11m) so that jittery
// marker drags within the same spot share one cache entry.
func NewKey(lat, lng, radiusKm float64) Key {
	return Key{
		Lat:      round4(lat),
		Lng:      round4(lng),
		RadiusKm: radiusKm,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// GridCache is the cache contract the data source adapter depends on.
// Implementations must be safe for concurrent use.
type GridCache interface {
	Get(key Key) (*model.PopulationGrid, bool)
	Set(key Key, grid *model.PopulationGrid)
	Clear()
}

type entry struct {
	grid     *model.PopulationGrid
	storedAt time.Time
}

// TTLCache is a mutex-guarded in-memory cache with time-bounded entries.
// Expired entries are treated as misses and evicted lazily on read.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[Key]entry

	// now is swappable in tests.
	now func() time.Time
}

// NewTTL creates a TTLCache with the given entry lifetime.
func NewTTL(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[Key]entry),
		now:     time.Now,
	}
}

// Get returns the cached grid if present and not expired.
func (c *TTLCache) Get(key Key) (*model.PopulationGrid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.grid, true
}

// Set stores a grid with the current timestamp.
func (c *TTLCache) Set(key Key, grid *model.PopulationGrid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{grid: grid, storedAt: c.now()}
}

// Clear removes all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
}

// Len returns the number of entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Noop is a cache that stores nothing. Used in tests and when caching is
// disabled.
type Noop struct{}

// Get always misses.
func (Noop) Get(Key) (*model.PopulationGrid, bool) { return nil, false }

// Set discards the grid.
func (Noop) Set(Key, *model.PopulationGrid) {}

// Clear does nothing.
func (Noop) Clear() {}
