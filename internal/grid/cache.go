package grid

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultCacheLimit is the number of distance maps kept before the default
// policy clears the cache.
const DefaultCacheLimit = 50

// Store is the view of the cache an EvictionPolicy operates on.
type Store interface {
	Len() int
	Clear()
	Delete(origin Tile)
	Origins() []Tile
}

// EvictionPolicy decides which cached distance maps to drop before a
// ground-distance query. Evict returns the number of maps removed.
type EvictionPolicy interface {
	Evict(s Store) int
}

// ClearAllPolicy drops every cached map once more than Limit are held.
// All-or-nothing: recomputation timing is observable and callers rely on it.
type ClearAllPolicy struct {
	Limit int
}

func (p ClearAllPolicy) Evict(s Store) int {
	n := s.Len()
	if n <= p.Limit {
		return 0
	}
	s.Clear()
	return n
}

// CacheStats counts cache activity since the cache was created.
type CacheStats struct {
	Computed int // distance maps computed
	Hits     int // lookups served from the cache
	Evicted  int // maps dropped by the eviction policy
	Clears   int // Evict calls that dropped at least one map
}

type mapStore map[Tile]*DistanceMap

func (m mapStore) Len() int { return len(m) }

func (m mapStore) Clear() { clear(m) }

func (m mapStore) Delete(origin Tile) { delete(m, origin) }

func (m mapStore) Origins() []Tile {
	out := make([]Tile, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	return out
}

// Cache memoizes distance maps by origin tile for the lifetime of a match.
// Computation runs outside the lock so distinct origins can be built in
// parallel; the map itself is only touched under mu.
type Cache struct {
	grid   *Grid
	policy EvictionPolicy

	mu    sync.Mutex
	maps  mapStore
	stats CacheStats

	// OnCompute, if set, is called after every fresh computation.
	OnCompute func(origin Tile)
	// OnEvict, if set, is called when the policy dropped n > 0 maps.
	OnEvict func(n int)
}

// NewCache creates an empty cache over g. A nil policy means
// ClearAllPolicy{Limit: DefaultCacheLimit}.
func NewCache(g *Grid, p EvictionPolicy) *Cache {
	if p == nil {
		p = ClearAllPolicy{Limit: DefaultCacheLimit}
	}
	return &Cache{
		grid:   g,
		policy: p,
		maps:   make(mapStore),
	}
}

// Get returns the distance map for origin, computing and storing it on the
// first request.
func (c *Cache) Get(origin Tile) *DistanceMap {
	c.mu.Lock()
	if dm, ok := c.maps[origin]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return dm
	}
	c.mu.Unlock()

	dm := c.grid.ComputeDistanceMap(origin)

	c.mu.Lock()
	if existing, ok := c.maps[origin]; ok {
		// Another worker stored the same origin first; keep its instance
		// and count this lookup as a hit.
		c.stats.Hits++
		c.mu.Unlock()
		return existing
	}
	c.maps[origin] = dm
	c.stats.Computed++
	c.mu.Unlock()

	if c.OnCompute != nil {
		c.OnCompute(origin)
	}
	return dm
}

// Evict applies the eviction policy and returns the number of dropped maps.
func (c *Cache) Evict() int {
	c.mu.Lock()
	n := c.policy.Evict(c.maps)
	if n > 0 {
		c.stats.Evicted += n
		c.stats.Clears++
	}
	c.mu.Unlock()

	if n > 0 && c.OnEvict != nil {
		c.OnEvict(n)
	}
	return n
}

// Contains reports whether a map for origin is cached.
func (c *Cache) Contains(origin Tile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.maps[origin]
	return ok
}

// Len returns the number of cached maps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.maps)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Warm computes maps for the given origins ahead of time using up to
// workers goroutines. Origins already cached are skipped. Returns the number
// of maps computed. Stops scheduling new work once ctx is done.
func (c *Cache) Warm(ctx context.Context, origins []Tile, workers int) (int, error) {
	if workers <= 0 {
		workers = 1
	}

	seen := make(map[Tile]struct{}, len(origins))
	var todo []Tile
	for _, o := range origins {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		if !c.Contains(o) {
			todo = append(todo, o)
		}
	}

	var done atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, o := range todo {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			c.Get(o)
			done.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return int(done.Load()), err
	}
	return int(done.Load()), ctx.Err()
}
