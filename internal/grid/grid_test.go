package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallsClassifiersOncePerTile(t *testing.T) {
	const w, h = 7, 5
	walkCalls := make(map[Tile]int)
	buildCalls := make(map[Tile]int)
	heightCalls := make(map[Tile]int)

	g := New(w, h, Classifier{
		Walkable: func(x, y int) bool {
			walkCalls[Tile{x, y}]++
			return x%2 == 0
		},
		Buildable: func(x, y int) bool {
			buildCalls[Tile{x, y}]++
			return y == 0
		},
		Height: func(x, y int) float32 {
			heightCalls[Tile{x, y}]++
			return float32(x + y)
		},
	})

	require.Equal(t, w, g.Width())
	require.Equal(t, h, g.Height())
	for _, tile := range allTiles(g) {
		assert.Equal(t, 1, walkCalls[tile], "walkable calls at %v", tile)
		assert.Equal(t, 1, buildCalls[tile], "buildable calls at %v", tile)
		assert.Equal(t, 1, heightCalls[tile], "height calls at %v", tile)
	}
	assert.Len(t, walkCalls, w*h)

	// Buildable row is walkable even where the walkable classifier says no.
	assert.True(t, g.IsWalkable(1, 0))
	assert.False(t, g.IsWalkable(1, 1))
	assert.True(t, g.IsWalkable(2, 3))
	assert.InDelta(t, 5.0, g.TerrainHeight(2, 3), 1e-6)
}

func TestBuildableImpliesWalkable(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := New(20, 15, Classifier{
		Walkable:  func(x, y int) bool { return rng.Intn(3) == 0 },
		Buildable: func(x, y int) bool { return rng.Intn(2) == 0 },
	})
	for _, tile := range allTiles(g) {
		if g.IsBuildable(tile.X, tile.Y) {
			assert.True(t, g.IsWalkable(tile.X, tile.Y), "buildable tile %v not walkable", tile)
		}
	}
}

func TestOutOfBoundsDefaults(t *testing.T) {
	g := fromASCII(
		"99",
		"99",
	)
	g.ComputeSectors()
	g.MarkSeen(0, 0, 4)

	oob := []Tile{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {100, 100}}
	for _, tile := range oob {
		assert.False(t, g.IsValid(tile.X, tile.Y))
		assert.False(t, g.IsWalkable(tile.X, tile.Y))
		assert.False(t, g.IsBuildable(tile.X, tile.Y))
		assert.False(t, g.IsDepotBuildable(tile.X, tile.Y))
		assert.Zero(t, g.TerrainHeight(tile.X, tile.Y))
		assert.Zero(t, g.LastSeen(tile.X, tile.Y))
		assert.Zero(t, g.Sector(tile.X, tile.Y))
	}

	// Writes out of bounds are ignored rather than panicking.
	g.MarkSeen(-3, 9, 10)
	g.SetDepotBuildable(5, 5, true)
}

func TestMarkSeenOverwrites(t *testing.T) {
	g := fromASCII("...")
	assert.Zero(t, g.LastSeen(1, 0))

	g.MarkSeen(1, 0, 12)
	assert.Equal(t, 12, g.LastSeen(1, 0))

	// Unconditional: an older frame still overwrites.
	g.MarkSeen(1, 0, 3)
	assert.Equal(t, 3, g.LastSeen(1, 0))
}

func TestSetDepotBuildableRequiresBuildable(t *testing.T) {
	g := fromASCII(".:#")

	g.SetDepotBuildable(0, 0, true)
	g.SetDepotBuildable(1, 0, true)
	g.SetDepotBuildable(2, 0, true)

	assert.True(t, g.IsDepotBuildable(0, 0))
	assert.False(t, g.IsDepotBuildable(1, 0), "walkable-only tile")
	assert.False(t, g.IsDepotBuildable(2, 0), "blocked tile")

	g.SetDepotBuildable(0, 0, false)
	assert.False(t, g.IsDepotBuildable(0, 0))
}

func TestPositionTile(t *testing.T) {
	tests := []struct {
		pos  Position
		want Tile
	}{
		{Position{0, 0}, Tile{0, 0}},
		{Position{3.99, 1.01}, Tile{3, 1}},
		{Position{-0.5, 2}, Tile{-1, 2}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.pos.Tile(), "Tile(%v)", tc.pos)
	}
	assert.Equal(t, Position{2.5, 4.5}, Tile{2, 4}.Center())
}
