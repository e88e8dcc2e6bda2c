package observe

import "github.com/LASTEXILE-CH/commandcenter/internal/grid"

// Static is an in-memory Observer for hosts that already hold decoded-ready
// layers, and for tests. Layers are [y*W + x] in map orientation; nil layers
// read as zero. Visible tiles are always explored, and stay explored once
// IsVisible has reported them.
type Static struct {
	W, H      int
	Path      []byte
	Place     []byte
	Elevation []byte
	Visible   map[grid.Tile]bool
	Explored  map[grid.Tile]bool
	Power     []PowerSource
	Cam       grid.Position
}

func (s *Static) Width() int  { return s.W }
func (s *Static) Height() int { return s.H }

func (s *Static) at(layer []byte, x, y int) byte {
	if x < 0 || y < 0 || x >= s.W || y >= s.H || layer == nil {
		return 0
	}
	return layer[y*s.W+x]
}

func (s *Static) Pathing(x, y int) byte       { return s.at(s.Path, x, y) }
func (s *Static) Placement(x, y int) byte     { return s.at(s.Place, x, y) }
func (s *Static) TerrainHeight(x, y int) byte { return s.at(s.Elevation, x, y) }

// IsVisible reports visibility and records visible tiles as explored, so a
// tile stays explored after it leaves Visible.
func (s *Static) IsVisible(x, y int) bool {
	t := grid.Tile{X: x, Y: y}
	if !s.Visible[t] {
		return false
	}
	if s.Explored == nil {
		s.Explored = make(map[grid.Tile]bool)
	}
	s.Explored[t] = true
	return true
}

func (s *Static) IsExplored(x, y int) bool {
	t := grid.Tile{X: x, Y: y}
	return s.Explored[t] || s.Visible[t]
}

func (s *Static) PowerSources() []PowerSource { return s.Power }
func (s *Static) Camera() grid.Position       { return s.Cam }

// StaticFromASCII builds a Static observer from rows of text, row index = y.
// '#' is unpathable, '.' buildable ground, ':' pathable but not buildable.
// Digits are buildable ground whose raw height byte is digit*25.
func StaticFromASCII(rows ...string) *Static {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	s := &Static{
		W:         w,
		H:         h,
		Path:      make([]byte, w*h),
		Place:     make([]byte, w*h),
		Elevation: make([]byte, w*h),
		Visible:   make(map[grid.Tile]bool),
		Explored:  make(map[grid.Tile]bool),
	}
	for y, row := range rows {
		for x := 0; x < w && x < len(row); x++ {
			i := y*w + x
			switch c := row[x]; {
			case c == '#':
				s.Path[i] = pathingBlocked
			case c == '.':
				s.Place[i] = placementAllowed
			case c >= '0' && c <= '9':
				s.Place[i] = placementAllowed
				s.Elevation[i] = (c - '0') * 25
			}
		}
	}
	return s
}
