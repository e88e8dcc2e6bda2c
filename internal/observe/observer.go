// Package observe defines what the map layer needs from the host engine and
// provides engine implementations of it.
package observe

import "github.com/LASTEXILE-CH/commandcenter/internal/grid"

// PowerSource is a structure that powers tiles within Radius of Position.
type PowerSource struct {
	Position grid.Position
	Radius   float64
}

// Observer is the per-engine capability surface consumed by the map layer.
// Raw layer accessors take map tile coordinates (y up) and return 0 outside
// the map.
type Observer interface {
	Width() int
	Height() int

	// Raw engine classification bytes.
	Pathing(x, y int) byte
	Placement(x, y int) byte
	TerrainHeight(x, y int) byte

	IsVisible(x, y int) bool
	IsExplored(x, y int) bool

	PowerSources() []PowerSource
	Camera() grid.Position
}

// Encoding constants for grid-encoded engine layers.
const (
	pathingBlocked   byte = 255 // pathing byte marking a non-pathable tile
	placementAllowed byte = 255 // placement byte marking a buildable tile

	heightMin   = -100.0
	heightRange = 200.0
)

// DecodeWalkable reports whether a raw pathing byte is pathable.
func DecodeWalkable(b byte) bool { return b != pathingBlocked }

// DecodeBuildable reports whether a raw placement byte allows building.
func DecodeBuildable(b byte) bool { return b == placementAllowed }

// DecodeHeight maps a raw height byte onto [-100, 100].
func DecodeHeight(b byte) float32 {
	return float32(heightMin + heightRange*float64(b)/255.0)
}

// Classifier builds the grid classifier that decodes o's raw layers.
func Classifier(o Observer) grid.Classifier {
	return grid.Classifier{
		Walkable:  func(x, y int) bool { return DecodeWalkable(o.Pathing(x, y)) },
		Buildable: func(x, y int) bool { return DecodeBuildable(o.Placement(x, y)) },
		Height:    func(x, y int) float32 { return DecodeHeight(o.TerrainHeight(x, y)) },
	}
}
