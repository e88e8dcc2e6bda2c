package grid

import "math"

// Unreached is the distance reported for tiles a distance map never reached.
// Callers must check for it before using a distance numerically.
const Unreached = -1

// Tile is an integer map cell coordinate.
type Tile struct {
	X int
	Y int
}

// Center returns the world position at the middle of the tile.
func (t Tile) Center() Position {
	return Position{X: float64(t.X) + 0.5, Y: float64(t.Y) + 0.5}
}

// Position is a continuous world coordinate. One tile spans 1.0 units.
type Position struct {
	X float64
	Y float64
}

// Tile returns the tile containing the position.
func (p Position) Tile() Tile {
	return Tile{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Dist returns the Euclidean distance between two positions.
func (p Position) Dist(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// 4-directional neighbour deltas: E, W, N, S.
var (
	neighbourDX = [4]int{1, -1, 0, 0}
	neighbourDY = [4]int{0, 0, 1, -1}
)
