package grid

import (
	"math/rand"
	"strings"
)

// fromASCII builds a grid from rows of text, row index = y.
// '#' blocked, '.' buildable, ':' walkable only. Digits are buildable with
// the digit as terrain height.
func fromASCII(rows ...string) *Grid {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	at := func(x, y int) byte { return rows[y][x] }
	return New(w, h, Classifier{
		Walkable: func(x, y int) bool { return at(x, y) == ':' },
		Buildable: func(x, y int) bool {
			c := at(x, y)
			return c == '.' || (c >= '0' && c <= '9')
		},
		Height: func(x, y int) float32 {
			c := at(x, y)
			if c >= '0' && c <= '9' {
				return float32(c - '0')
			}
			return 0
		},
	})
}

// randomASCII produces a w x h map with roughly pBlocked of tiles blocked.
func randomASCII(rng *rand.Rand, w, h int, pBlocked float64) []string {
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			switch r := rng.Float64(); {
			case r < pBlocked:
				b.WriteByte('#')
			case r < pBlocked+(1-pBlocked)/2:
				b.WriteByte('.')
			default:
				b.WriteByte(':')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// reachable is a recursive DFS reference for 4-directional connectivity.
func reachable(g *Grid, from, to Tile) bool {
	if !g.IsWalkable(from.X, from.Y) || !g.IsWalkable(to.X, to.Y) {
		return false
	}
	seen := make(map[Tile]bool)
	var visit func(t Tile) bool
	visit = func(t Tile) bool {
		if t == to {
			return true
		}
		seen[t] = true
		for a := 0; a < 4; a++ {
			n := Tile{X: t.X + neighbourDX[a], Y: t.Y + neighbourDY[a]}
			if seen[n] || !g.IsWalkable(n.X, n.Y) {
				continue
			}
			if visit(n) {
				return true
			}
		}
		return false
	}
	return visit(from)
}

// relaxedDistances computes shortest step counts from origin by repeated
// edge relaxation until nothing changes. The origin is exempt from the
// walkability requirement, matching ComputeDistanceMap.
func relaxedDistances(g *Grid, origin Tile) map[Tile]int {
	dist := map[Tile]int{origin: 0}
	for changed := true; changed; {
		changed = false
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				cur := Tile{X: x, Y: y}
				d, ok := dist[cur]
				if !ok {
					continue
				}
				for a := 0; a < 4; a++ {
					n := Tile{X: x + neighbourDX[a], Y: y + neighbourDY[a]}
					if !g.IsWalkable(n.X, n.Y) {
						continue
					}
					if old, ok := dist[n]; !ok || d+1 < old {
						dist[n] = d + 1
						changed = true
					}
				}
			}
		}
	}
	return dist
}

func allTiles(g *Grid) []Tile {
	out := make([]Tile, 0, g.Width()*g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out = append(out, Tile{X: x, Y: y})
		}
	}
	return out
}
