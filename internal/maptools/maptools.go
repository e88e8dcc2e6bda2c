// Package maptools is the per-match map session: it owns the grid, the
// distance-map cache and the frame counter, and answers spatial queries.
package maptools

import (
	"context"
	"fmt"
	"os"

	"github.com/LASTEXILE-CH/commandcenter/internal/core/event"
	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"github.com/LASTEXILE-CH/commandcenter/internal/observe"
	"go.uber.org/zap"
)

// DepotMarker marks depot-buildable tiles on a freshly built grid.
type DepotMarker interface {
	Apply(g *grid.Grid) (int, error)
}

// Options configures a match session. Zero values select the defaults:
// the observer's own decoders, ClearAllPolicy at the default limit, and no
// depot marking.
type Options struct {
	Classifier grid.Classifier
	Policy     grid.EvictionPolicy
	Depot      DepotMarker
}

// MapTools is the query surface for one match.
// Accessed only from the tick goroutine, except Warm which fans out
// internally.
type MapTools struct {
	obs  observe.Observer
	opts Options
	log  *zap.Logger
	bus  *event.Bus

	grid  *grid.Grid
	cache *grid.Cache
	frame int

	dropped int // maps dropped by the cache since the last OnFrame
}

// New creates a session over o. Queries before OnStart see an empty map.
// bus may be nil.
func New(o observe.Observer, opts Options, log *zap.Logger, bus *event.Bus) *MapTools {
	if opts.Classifier.Walkable == nil && opts.Classifier.Buildable == nil && opts.Classifier.Height == nil {
		opts.Classifier = observe.Classifier(o)
	}
	m := &MapTools{
		obs:  o,
		opts: opts,
		log:  log,
		bus:  bus,
	}
	m.setGrid(grid.New(0, 0, grid.Classifier{}))
	return m
}

func (m *MapTools) setGrid(g *grid.Grid) {
	m.grid = g
	m.cache = grid.NewCache(g, m.opts.Policy)
	m.cache.OnEvict = func(n int) {
		m.dropped += n
		m.log.Debug("distance map cache cleared", zap.Int("dropped", n), zap.Int("frame", m.frame))
	}
}

// OnStart builds the static layers from the observer, labels sectors and
// marks depot-buildable tiles. Calling it again rebuilds everything and
// drops cached distance maps.
func (m *MapTools) OnStart() {
	w, h := m.obs.Width(), m.obs.Height()
	m.setGrid(grid.New(w, h, m.opts.Classifier))
	m.frame = 0
	m.dropped = 0

	sectors := m.grid.ComputeSectors()

	depots := 0
	if m.opts.Depot != nil {
		n, err := m.opts.Depot.Apply(m.grid)
		if err != nil {
			m.log.Warn("depot rule failed on some tiles", zap.Error(err))
		}
		depots = n
	}

	walkable := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.grid.IsWalkable(x, y) {
				walkable++
			}
		}
	}

	m.log.Info("map analysed",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("walkable", walkable),
		zap.Int("sectors", sectors),
		zap.Int("depot_tiles", depots),
	)
	if m.bus != nil {
		event.Emit(m.bus, event.SectorsComputed{Sectors: sectors, Walkable: walkable})
	}
}

// OnFrame advances the frame counter and stamps every visible tile with it.
func (m *MapTools) OnFrame() {
	m.frame++
	for y := 0; y < m.grid.Height(); y++ {
		for x := 0; x < m.grid.Width(); x++ {
			if m.obs.IsVisible(x, y) {
				m.grid.MarkSeen(x, y, m.frame)
			}
		}
	}

	if m.dropped > 0 {
		if m.bus != nil {
			event.Emit(m.bus, event.CacheCleared{Frame: m.frame, Dropped: m.dropped})
		}
		m.dropped = 0
	}
}

// Frame returns the number of OnFrame calls since OnStart.
func (m *MapTools) Frame() int { return m.frame }

func (m *MapTools) Width() int  { return m.grid.Width() }
func (m *MapTools) Height() int { return m.grid.Height() }

func (m *MapTools) IsValidTile(t grid.Tile) bool { return m.grid.IsValidTile(t) }

func (m *MapTools) IsValidPosition(p grid.Position) bool { return m.grid.IsValidTile(p.Tile()) }

func (m *MapTools) IsWalkable(x, y int) bool       { return m.grid.IsWalkable(x, y) }
func (m *MapTools) IsBuildable(x, y int) bool      { return m.grid.IsBuildable(x, y) }
func (m *MapTools) IsDepotBuildable(x, y int) bool { return m.grid.IsDepotBuildable(x, y) }

// TerrainHeight returns the decoded height of the tile containing p.
func (m *MapTools) TerrainHeight(p grid.Position) float32 {
	t := p.Tile()
	return m.grid.TerrainHeight(t.X, t.Y)
}

func (m *MapTools) Sector(x, y int) int   { return m.grid.Sector(x, y) }
func (m *MapTools) SectorCount() int      { return m.grid.SectorCount() }
func (m *MapTools) LastSeen(x, y int) int { return m.grid.LastSeen(x, y) }

func (m *MapTools) IsConnected(a, b grid.Tile) bool { return m.grid.IsConnected(a, b) }

func (m *MapTools) IsConnectedPos(a, b grid.Position) bool {
	return m.grid.IsConnected(a.Tile(), b.Tile())
}

func (m *MapTools) IsExplored(x, y int) bool {
	return m.grid.IsValid(x, y) && m.obs.IsExplored(x, y)
}

func (m *MapTools) IsVisible(x, y int) bool {
	return m.grid.IsValid(x, y) && m.obs.IsVisible(x, y)
}

// IsPowered reports whether the centre of (x, y) lies strictly inside the
// radius of any power source.
func (m *MapTools) IsPowered(x, y int) bool {
	if !m.grid.IsValid(x, y) {
		return false
	}
	c := grid.Tile{X: x, Y: y}.Center()
	for _, p := range m.obs.PowerSources() {
		if c.Dist(p.Position) < p.Radius {
			return true
		}
	}
	return false
}

// DistanceMap returns the cached distance map rooted at origin.
func (m *MapTools) DistanceMap(origin grid.Tile) *grid.DistanceMap {
	return m.cache.Get(origin)
}

// GroundDistance returns the walking distance in tiles from src to dest, or
// grid.Unreached. The map is rooted at dest so repeated queries toward one
// target share it. The cache policy runs first.
func (m *MapTools) GroundDistance(src, dest grid.Position) int {
	m.cache.Evict()
	return m.cache.Get(dest.Tile()).Distance(src.Tile())
}

// ClosestTilesTo returns every tile reachable from origin ordered by
// non-decreasing ground distance. The slice is shared; do not modify it.
func (m *MapTools) ClosestTilesTo(origin grid.Tile) []grid.Tile {
	return m.cache.Get(origin).SortedTiles()
}

// LeastRecentlySeenTile returns the candidate with the oldest last-seen
// frame, the earliest candidate winning ties. Candidates outside the map
// are ignored; ok is false when none remain.
func (m *MapTools) LeastRecentlySeenTile(candidates []grid.Tile) (grid.Tile, bool) {
	var best grid.Tile
	bestFrame := 0
	found := false
	for _, t := range candidates {
		if !m.grid.IsValidTile(t) {
			continue
		}
		f := m.grid.LastSeen(t.X, t.Y)
		if !found || f < bestFrame {
			best, bestFrame, found = t, f, true
		}
	}
	return best, found
}

// CacheStats returns the distance-map cache counters.
func (m *MapTools) CacheStats() grid.CacheStats { return m.cache.Stats() }

// CachedMaps returns the number of distance maps currently held.
func (m *MapTools) CachedMaps() int { return m.cache.Len() }

// Warm precomputes distance maps for origins on up to workers goroutines.
func (m *MapTools) Warm(ctx context.Context, origins []grid.Tile, workers int) (int, error) {
	n, err := m.cache.Warm(ctx, origins, workers)
	if err != nil {
		return n, fmt.Errorf("warm distance maps: %w", err)
	}
	m.log.Info("distance maps warmed", zap.Int("computed", n), zap.Int("requested", len(origins)))
	if m.bus != nil && n > 0 {
		event.Emit(m.bus, event.DistanceMapsWarmed{Count: n})
	}
	return n, nil
}

// PrintMap writes the walkable layer to path, one row per line.
func (m *MapTools) PrintMap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("print map: %w", err)
	}
	if err := m.grid.WriteWalkable(f); err != nil {
		f.Close()
		return fmt.Errorf("print map %s: %w", path, err)
	}
	return f.Close()
}

// DumpViewport writes the debug viewport around the observer's camera.
func (m *MapTools) DumpViewport(path string, opts grid.ViewOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump viewport: %w", err)
	}
	if err := m.grid.WriteViewport(f, m.obs.Camera().Tile(), opts); err != nil {
		f.Close()
		return fmt.Errorf("dump viewport %s: %w", path, err)
	}
	return f.Close()
}
