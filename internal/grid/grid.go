package grid

// Classifier supplies the raw per-tile classification used to populate the
// static layers. Each function is called exactly once per tile by New.
type Classifier struct {
	Walkable  func(x, y int) bool
	Buildable func(x, y int) bool
	Height    func(x, y int) float32
}

// Grid holds the dense per-tile layers for one match.
// Layers are flat arrays indexed [y*width + x].
// Accessed only from the tick goroutine; the static layers (walkable,
// buildable, height) are never written after New, so readers on other
// goroutines may use them freely.
type Grid struct {
	width  int
	height int

	walkable  []bool
	buildable []bool
	depot     []bool
	elevation []float32
	lastSeen  []int
	sector    []int

	sectors int // number of sectors assigned by ComputeSectors
}

// New allocates a width x height grid and populates the static layers in one
// row-major pass. A tile is walkable when it is buildable or the walkable
// classifier accepts it, so buildable always implies walkable.
func New(width, height int, c Classifier) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	g := &Grid{
		width:     width,
		height:    height,
		walkable:  make([]bool, n),
		buildable: make([]bool, n),
		depot:     make([]bool, n),
		elevation: make([]float32, n),
		lastSeen:  make([]int, n),
		sector:    make([]int, n),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if c.Buildable != nil {
				g.buildable[i] = c.Buildable(x, y)
			}
			walk := false
			if c.Walkable != nil {
				walk = c.Walkable(x, y)
			}
			g.walkable[i] = g.buildable[i] || walk
			if c.Height != nil {
				g.elevation[i] = c.Height(x, y)
			}
		}
	}
	return g
}

// Width returns the map width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the map height in tiles.
func (g *Grid) Height() int { return g.height }

// IsValid reports whether (x, y) lies inside the map.
func (g *Grid) IsValid(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsValidTile is IsValid for a Tile.
func (g *Grid) IsValidTile(t Tile) bool {
	return g.IsValid(t.X, t.Y)
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// IsWalkable returns false for out-of-bounds coordinates.
func (g *Grid) IsWalkable(x, y int) bool {
	if !g.IsValid(x, y) {
		return false
	}
	return g.walkable[g.index(x, y)]
}

// IsBuildable returns false for out-of-bounds coordinates.
func (g *Grid) IsBuildable(x, y int) bool {
	if !g.IsValid(x, y) {
		return false
	}
	return g.buildable[g.index(x, y)]
}

// IsDepotBuildable returns false for out-of-bounds coordinates.
func (g *Grid) IsDepotBuildable(x, y int) bool {
	if !g.IsValid(x, y) {
		return false
	}
	return g.depot[g.index(x, y)]
}

// TerrainHeight returns 0 for out-of-bounds coordinates.
func (g *Grid) TerrainHeight(x, y int) float32 {
	if !g.IsValid(x, y) {
		return 0
	}
	return g.elevation[g.index(x, y)]
}

// LastSeen returns the last frame the tile was observed, 0 if never or out
// of bounds.
func (g *Grid) LastSeen(x, y int) int {
	if !g.IsValid(x, y) {
		return 0
	}
	return g.lastSeen[g.index(x, y)]
}

// Sector returns the sector id of the tile, 0 for non-walkable or
// out-of-bounds tiles.
func (g *Grid) Sector(x, y int) int {
	if !g.IsValid(x, y) {
		return 0
	}
	return g.sector[g.index(x, y)]
}

// SetDepotBuildable marks a tile as eligible for a resource depot.
// Only buildable tiles can be depot-buildable; other tiles are ignored.
func (g *Grid) SetDepotBuildable(x, y int, ok bool) {
	if !g.IsValid(x, y) {
		return
	}
	i := g.index(x, y)
	if ok && !g.buildable[i] {
		return
	}
	g.depot[i] = ok
}

// MarkSeen overwrites the last-seen frame of a tile. Callers only pass
// currently observed tiles.
func (g *Grid) MarkSeen(x, y, frame int) {
	if !g.IsValid(x, y) {
		return
	}
	g.lastSeen[g.index(x, y)] = frame
}
