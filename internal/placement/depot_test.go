package placement

import (
	"testing"

	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"github.com/LASTEXILE-CH/commandcenter/internal/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrid(rows ...string) *grid.Grid {
	s := observe.StaticFromASCII(rows...)
	g := grid.New(s.Width(), s.Height(), observe.Classifier(s))
	g.ComputeSectors()
	return g
}

func TestDefaultRuleNeedsBuildableFootprint(t *testing.T) {
	g := buildGrid(
		"......",
		"......",
		"......",
		"......",
		"...:..",
	)
	rule, err := Compile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDepotRule, rule.Source())

	n, err := rule.Apply(g)
	require.NoError(t, err)
	// Both 5x5 candidates, centred on (2,2) and (3,2), cover the walkable-only (3,4).
	assert.Zero(t, n)

	g = buildGrid(
		".....",
		".....",
		".....",
		".....",
		".....",
	)
	n, err = rule.Apply(g)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, g.IsDepotBuildable(2, 2))
	assert.False(t, g.IsDepotBuildable(1, 2))
}

func TestCustomRuleUsesEnv(t *testing.T) {
	g := buildGrid(
		"..#..",
		"9.#.:",
	)
	rule, err := Compile(`Height > 50 || (X >= 3 && WalkableCount(1) >= 4)`)
	require.NoError(t, err)

	n, err := rule.Apply(g)
	require.NoError(t, err)

	assert.True(t, g.IsDepotBuildable(0, 1), "high ground")
	assert.True(t, g.IsDepotBuildable(3, 0))
	assert.True(t, g.IsDepotBuildable(3, 1))
	assert.False(t, g.IsDepotBuildable(4, 1), "walkable-only tiles are never depots")
	assert.False(t, g.IsDepotBuildable(1, 0))
	assert.Equal(t, 4, n)
}

func TestRuleSeesSector(t *testing.T) {
	g := buildGrid(".#.")
	rule, err := Compile(`Sector == 2`)
	require.NoError(t, err)

	ok, err := rule.Match(g, 2, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rule.Match(g, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`Height +`)
	assert.Error(t, err)

	_, err = Compile(`X + 1`)
	assert.Error(t, err, "rule must be boolean")

	_, err = Compile(`Nope(3)`)
	assert.Error(t, err)
}
