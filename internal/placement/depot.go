// Package placement marks depot-buildable tiles from a configurable rule.
package placement

import (
	"fmt"

	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultDepotRule accepts tiles with a fully buildable 5x5 footprint.
const DefaultDepotRule = `BuildableWithin(2)`

// TileEnv is the expression environment for one candidate tile.
type TileEnv struct {
	X         int
	Y         int
	Height    float64
	Buildable bool
	Walkable  bool
	Sector    int

	g *grid.Grid
}

// BuildableWithin reports whether every tile in the (2r+1)^2 square around
// the candidate is buildable. Squares crossing the map edge fail.
func (e TileEnv) BuildableWithin(r int) bool {
	for y := e.Y - r; y <= e.Y+r; y++ {
		for x := e.X - r; x <= e.X+r; x++ {
			if !e.g.IsBuildable(x, y) {
				return false
			}
		}
	}
	return true
}

// WalkableCount counts walkable tiles in the (2r+1)^2 square around the
// candidate, the candidate included.
func (e TileEnv) WalkableCount(r int) int {
	n := 0
	for y := e.Y - r; y <= e.Y+r; y++ {
		for x := e.X - r; x <= e.X+r; x++ {
			if e.g.IsWalkable(x, y) {
				n++
			}
		}
	}
	return n
}

// HeightAt returns the terrain height at an offset from the candidate.
func (e TileEnv) HeightAt(dx, dy int) float64 {
	return float64(e.g.TerrainHeight(e.X+dx, e.Y+dy))
}

// DepotRule is a compiled depot-buildable predicate.
type DepotRule struct {
	src     string
	program *vm.Program
}

// Compile compiles a boolean expression over TileEnv.
// An empty source compiles DefaultDepotRule.
func Compile(src string) (*DepotRule, error) {
	if src == "" {
		src = DefaultDepotRule
	}
	prog, err := expr.Compile(src, expr.Env(TileEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile depot rule %q: %w", src, err)
	}
	return &DepotRule{src: src, program: prog}, nil
}

// Source returns the expression the rule was compiled from.
func (r *DepotRule) Source() string { return r.src }

// Match evaluates the rule for a single tile. Non-buildable tiles never match.
func (r *DepotRule) Match(g *grid.Grid, x, y int) (bool, error) {
	if !g.IsBuildable(x, y) {
		return false, nil
	}
	env := TileEnv{
		X:         x,
		Y:         y,
		Height:    float64(g.TerrainHeight(x, y)),
		Buildable: true,
		Walkable:  g.IsWalkable(x, y),
		Sector:    g.Sector(x, y),
		g:         g,
	}
	out, err := vm.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("depot rule at (%d,%d): %w", x, y, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply evaluates the rule on every buildable tile and marks matches as
// depot-buildable. Tiles where evaluation fails are left unmarked. Returns
// the number of marked tiles and the first evaluation error, if any.
func (r *DepotRule) Apply(g *grid.Grid) (int, error) {
	marked := 0
	var firstErr error
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			ok, err := r.Match(g, x, y)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				g.SetDepotBuildable(x, y, true)
				marked++
			}
		}
	}
	return marked, firstErr
}
