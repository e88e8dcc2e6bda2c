package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteWalkable writes the walkable layer as text: one line per row from
// y = 0 upward, '1' for walkable and '0' for blocked.
func (g *Grid) WriteWalkable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := byte('0')
			if g.walkable[g.index(x, y)] {
				c = '1'
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ViewOptions selects what WriteViewport renders per tile.
type ViewOptions struct {
	Radius       int  // half-width of the square around the centre
	DrawSectors  bool // sector ids, space separated
	DrawTileInfo bool // '.' buildable, ':' walkable only, '#' blocked
}

// WriteViewport renders the square of tiles around centre. Tiles outside the
// map are skipped. With both options set the tile-info block is written
// first, followed by a blank line and the sector block.
func (g *Grid) WriteViewport(w io.Writer, centre Tile, opts ViewOptions) error {
	r := opts.Radius
	if r <= 0 {
		r = 16
	}
	minX, maxX := clampRange(centre.X-r, centre.X+r, g.width)
	minY, maxY := clampRange(centre.Y-r, centre.Y+r, g.height)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# viewport (%d,%d)-(%d,%d)\n", minX, minY, maxX, maxY)

	if opts.DrawTileInfo {
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				bw.WriteByte(tileGlyph(g, x, y))
			}
			bw.WriteByte('\n')
		}
	}

	if opts.DrawSectors {
		if opts.DrawTileInfo {
			bw.WriteByte('\n')
		}
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if x > minX {
					bw.WriteByte(' ')
				}
				bw.WriteString(strconv.Itoa(g.Sector(x, y)))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func tileGlyph(g *Grid, x, y int) byte {
	switch {
	case !g.IsWalkable(x, y):
		return '#'
	case g.IsBuildable(x, y):
		return '.'
	default:
		return ':'
	}
}

// clampRange limits [lo, hi] to [0, size-1]. An empty map yields lo > hi.
func clampRange(lo, hi, size int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > size-1 {
		hi = size - 1
	}
	return lo, hi
}
