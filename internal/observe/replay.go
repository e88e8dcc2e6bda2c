package observe

import (
	"math"

	"github.com/LASTEXILE-CH/commandcenter/internal/data"
	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
)

// Sight is a vision source: every tile whose centre lies within Radius of
// the centre of Tile is visible.
type Sight struct {
	Tile   grid.Tile
	Radius float64
}

// Replay is the file-backed engine. Static layers come from a loaded RawMap;
// visibility is derived from the sight sources set by the host each frame.
// Accessed only from the tick goroutine.
type Replay struct {
	raw      *data.RawMap
	power    []PowerSource
	camera   grid.Position
	sights   []Sight
	visible  []bool // [y*width + x]
	explored []bool // sticky: once visible, explored for the rest of the match
}

// NewReplay wraps a loaded map. The camera starts at the map's start spot.
func NewReplay(raw *data.RawMap) *Replay {
	n := raw.Width * raw.Height
	r := &Replay{
		raw:      raw,
		camera:   grid.Position{X: raw.Info.Start.X, Y: raw.Info.Start.Y},
		visible:  make([]bool, n),
		explored: make([]bool, n),
	}
	for _, p := range raw.Info.Power {
		r.power = append(r.power, PowerSource{
			Position: grid.Position{X: p.X, Y: p.Y},
			Radius:   p.Radius,
		})
	}
	return r
}

func (r *Replay) Width() int  { return r.raw.Width }
func (r *Replay) Height() int { return r.raw.Height }

func (r *Replay) valid(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.raw.Width && y < r.raw.Height
}

// rawIndex flips y: engine layers are stored top row first.
func (r *Replay) rawIndex(x, y int) int {
	return x + (r.raw.Height-1-y)*r.raw.Width
}

func (r *Replay) Pathing(x, y int) byte {
	if !r.valid(x, y) {
		return 0
	}
	return r.raw.Pathing[r.rawIndex(x, y)]
}

func (r *Replay) Placement(x, y int) byte {
	if !r.valid(x, y) {
		return 0
	}
	return r.raw.Placement[r.rawIndex(x, y)]
}

func (r *Replay) TerrainHeight(x, y int) byte {
	if !r.valid(x, y) {
		return 0
	}
	return r.raw.Terrain[r.rawIndex(x, y)]
}

func (r *Replay) IsVisible(x, y int) bool {
	if !r.valid(x, y) {
		return false
	}
	return r.visible[y*r.raw.Width+x]
}

func (r *Replay) IsExplored(x, y int) bool {
	if !r.valid(x, y) {
		return false
	}
	return r.explored[y*r.raw.Width+x]
}

func (r *Replay) PowerSources() []PowerSource { return r.power }

func (r *Replay) Camera() grid.Position { return r.camera }

// SetCamera moves the camera used by viewport dumps.
func (r *Replay) SetCamera(p grid.Position) { r.camera = p }

// SetSight replaces the vision sources. Takes effect on the next Advance.
func (r *Replay) SetSight(s []Sight) {
	r.sights = append(r.sights[:0], s...)
}

// AddPowerSource registers a power source built during the match.
func (r *Replay) AddPowerSource(p PowerSource) {
	r.power = append(r.power, p)
}

// Advance recomputes visibility from the current sight sources. Called once
// per frame before the map layer reads visibility.
func (r *Replay) Advance() {
	clear(r.visible)
	w, h := r.raw.Width, r.raw.Height
	for _, s := range r.sights {
		if s.Radius < 0 {
			continue
		}
		reach := int(math.Ceil(s.Radius))
		c := s.Tile.Center()
		for y := max(0, s.Tile.Y-reach); y <= min(h-1, s.Tile.Y+reach); y++ {
			for x := max(0, s.Tile.X-reach); x <= min(w-1, s.Tile.X+reach); x++ {
				if c.Dist(grid.Tile{X: x, Y: y}.Center()) > s.Radius {
					continue
				}
				i := y*w + x
				r.visible[i] = true
				r.explored[i] = true
			}
		}
	}
}
