package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorsSingleBlockedTile(t *testing.T) {
	g := fromASCII(
		"....",
		".#..",
		"....",
		"....",
	)
	n := g.ComputeSectors()
	require.Equal(t, 1, n)
	assert.Equal(t, 1, g.SectorCount())

	walkable := 0
	for _, tile := range allTiles(g) {
		if g.IsWalkable(tile.X, tile.Y) {
			walkable++
			assert.Equal(t, 1, g.Sector(tile.X, tile.Y))
		}
	}
	assert.Equal(t, 15, walkable)
	assert.Zero(t, g.Sector(1, 1))
}

func TestSectorsSplitByWall(t *testing.T) {
	g := fromASCII(
		"..#...",
		"..#.:.",
		"::#...",
		"..#..:",
	)
	n := g.ComputeSectors()
	require.Equal(t, 2, n)

	left := Tile{0, 0}
	right := Tile{5, 3}
	assert.False(t, g.IsConnected(left, right))
	assert.True(t, g.IsConnected(left, Tile{1, 3}))
	assert.True(t, g.IsConnected(right, Tile{3, 0}))

	ids := make(map[int]bool)
	for _, tile := range allTiles(g) {
		if s := g.Sector(tile.X, tile.Y); s != 0 {
			ids[s] = true
		}
	}
	assert.Len(t, ids, 2)
}

func TestSectorIdsInScanOrder(t *testing.T) {
	g := fromASCII(
		".#.#.",
		"##.##",
		".#..#",
	)
	require.Equal(t, 4, g.ComputeSectors())
	assert.Equal(t, 1, g.Sector(0, 0))
	assert.Equal(t, 2, g.Sector(2, 0))
	assert.Equal(t, 2, g.Sector(3, 2), "joined through (2,1)")
	assert.Equal(t, 3, g.Sector(4, 0))
	assert.Equal(t, 4, g.Sector(0, 2))
}

func TestSectorsNoDiagonals(t *testing.T) {
	g := fromASCII(
		".#",
		"#.",
	)
	require.Equal(t, 2, g.ComputeSectors())
	assert.False(t, g.IsConnected(Tile{0, 0}, Tile{1, 1}))
}

func TestIsConnectedEdgeCases(t *testing.T) {
	g := fromASCII(
		"..",
		"#.",
	)
	g.ComputeSectors()

	assert.True(t, g.IsConnected(Tile{0, 0}, Tile{0, 0}))
	assert.False(t, g.IsConnected(Tile{0, 1}, Tile{0, 1}), "blocked tile is never connected")
	assert.False(t, g.IsConnected(Tile{0, 0}, Tile{-1, 0}))
	assert.False(t, g.IsConnected(Tile{5, 5}, Tile{5, 5}))
}

func TestSectorsMatchBruteForce(t *testing.T) {
	for seed := int64(1); seed <= 12; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := fromASCII(randomASCII(rng, 9, 7, 0.35)...)
		g.ComputeSectors()

		tiles := allTiles(g)
		for _, tile := range tiles {
			s := g.Sector(tile.X, tile.Y)
			if g.IsWalkable(tile.X, tile.Y) {
				assert.Positive(t, s, "seed %d: walkable %v has no sector", seed, tile)
			} else {
				assert.Zero(t, s, "seed %d: blocked %v has a sector", seed, tile)
			}
		}
		for _, a := range tiles {
			for _, b := range tiles {
				want := reachable(g, a, b)
				if got := g.IsConnected(a, b); got != want {
					t.Fatalf("seed %d: IsConnected(%v, %v) = %v, want %v", seed, a, b, got, want)
				}
			}
		}
	}
}

func TestComputeSectorsIsRepeatable(t *testing.T) {
	g := fromASCII(
		".#.",
		".#.",
	)
	first := g.ComputeSectors()
	second := g.ComputeSectors()
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.Sector(0, 1))
	assert.Equal(t, 2, g.Sector(2, 1))
}
