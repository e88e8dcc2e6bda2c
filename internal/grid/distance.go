package grid

// DistanceMap is a breadth-first distance field from one origin tile over the
// walkable sub-grid. It is immutable once computed.
type DistanceMap struct {
	origin Tile
	width  int
	height int
	dist   []int
	sorted []Tile
}

// ComputeDistanceMap runs a BFS from origin over 4-directional walkable
// neighbours. The origin itself is not required to be walkable, so a map may
// be rooted on a structure footprint and still reach the ground around it.
//
// An origin outside the grid yields a map where every tile is Unreached.
func (g *Grid) ComputeDistanceMap(origin Tile) *DistanceMap {
	n := g.width * g.height
	dm := &DistanceMap{
		origin: origin,
		width:  g.width,
		height: g.height,
		dist:   make([]int, n),
	}
	for i := range dm.dist {
		dm.dist[i] = Unreached
	}
	if !g.IsValidTile(origin) {
		return dm
	}

	// sorted doubles as the BFS queue: BFS emits tiles in non-decreasing
	// distance, so emission order is already the ascending order.
	dm.sorted = make([]Tile, 0, n)
	dm.dist[g.index(origin.X, origin.Y)] = 0
	dm.sorted = append(dm.sorted, origin)

	for head := 0; head < len(dm.sorted); head++ {
		cur := dm.sorted[head]
		next := dm.dist[g.index(cur.X, cur.Y)] + 1
		for a := 0; a < 4; a++ {
			nx := cur.X + neighbourDX[a]
			ny := cur.Y + neighbourDY[a]
			if !g.IsValid(nx, ny) {
				continue
			}
			ni := g.index(nx, ny)
			if !g.walkable[ni] || dm.dist[ni] != Unreached {
				continue
			}
			dm.dist[ni] = next
			dm.sorted = append(dm.sorted, Tile{X: nx, Y: ny})
		}
	}

	// Release the unused queue capacity; maps stay cached for the match.
	dm.sorted = dm.sorted[:len(dm.sorted):len(dm.sorted)]
	return dm
}

// Origin returns the tile the map was computed from.
func (d *DistanceMap) Origin() Tile { return d.origin }

// Distance returns the number of tile steps from the origin to t, or
// Unreached if t is out of bounds or not reachable.
func (d *DistanceMap) Distance(t Tile) int {
	if t.X < 0 || t.Y < 0 || t.X >= d.width || t.Y >= d.height {
		return Unreached
	}
	return d.dist[t.Y*d.width+t.X]
}

// SortedTiles returns every reached tile ordered by ascending distance, the
// origin first. The slice is shared; callers must not modify it.
func (d *DistanceMap) SortedTiles() []Tile { return d.sorted }

// Reached returns the number of tiles the BFS reached, origin included.
func (d *DistanceMap) Reached() int { return len(d.sorted) }
