package grid

// ComputeSectors labels every walkable tile with the id of its 4-connected
// walkable component. Ids start at 1 and increase in row-major scan order;
// non-walkable tiles keep 0. Returns the number of sectors.
//
// Each tile enters the fringe at most once, so the pass is linear in the
// grid size. Safe to call again; previous labels are discarded.
func (g *Grid) ComputeSectors() int {
	for i := range g.sector {
		g.sector[i] = 0
	}

	fringe := make([]Tile, 0, len(g.sector))
	sector := 0

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := g.index(x, y)
			if g.sector[i] != 0 || !g.walkable[i] {
				continue
			}

			sector++
			fringe = fringe[:0]
			fringe = append(fringe, Tile{X: x, Y: y})
			g.sector[i] = sector

			for f := 0; f < len(fringe); f++ {
				cur := fringe[f]
				for a := 0; a < 4; a++ {
					nx := cur.X + neighbourDX[a]
					ny := cur.Y + neighbourDY[a]
					if !g.IsValid(nx, ny) {
						continue
					}
					ni := g.index(nx, ny)
					if !g.walkable[ni] || g.sector[ni] != 0 {
						continue
					}
					g.sector[ni] = sector
					fringe = append(fringe, Tile{X: nx, Y: ny})
				}
			}
		}
	}

	g.sectors = sector
	return sector
}

// SectorCount returns the number of sectors found by the last ComputeSectors.
func (g *Grid) SectorCount() int { return g.sectors }

// IsConnected reports whether two tiles are both valid, walkable and in the
// same sector, i.e. mutually reachable by ground.
func (g *Grid) IsConnected(a, b Tile) bool {
	if !g.IsValidTile(a) || !g.IsValidTile(b) {
		return false
	}
	s1 := g.Sector(a.X, a.Y)
	s2 := g.Sector(b.X, b.Y)
	return s1 != 0 && s1 == s2
}
