package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapList = `maps:
  - map_id: 7
    name: "Crossing"
    width: 3
    height: 2
    pathing: 7_pathing.txt
    placement: 7_placement.txt
    height_file: 7_height.txt
    power:
      - { x: 1.5, y: 0.5, radius: 6.5 }
    start: { x: 1, y: 1 }
  - map_id: 8
    name: "Broken"
    width: 0
    height: 4
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMapList(t *testing.T) {
	dir := t.TempDir()
	list, err := LoadMapList(writeFile(t, dir, "map_list.yaml", testMapList))
	require.NoError(t, err)

	assert.Equal(t, 1, list.Count(), "zero-width map is skipped")
	info := list.Get(7)
	require.NotNil(t, info)
	assert.Equal(t, "Crossing", info.Name)
	assert.Equal(t, []PowerSpot{{X: 1.5, Y: 0.5, Radius: 6.5}}, info.Power)
	assert.Equal(t, Spot{X: 1, Y: 1}, info.Start)
	assert.Nil(t, list.Get(8))
}

func TestLoadMapListMissingFile(t *testing.T) {
	_, err := LoadMapList(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRawMap(t *testing.T) {
	dir := t.TempDir()
	list, err := LoadMapList(writeFile(t, dir, "map_list.yaml", testMapList))
	require.NoError(t, err)

	writeFile(t, dir, "7_pathing.txt", "# top row first\n0,255,0\n\n0,0,0\n")
	writeFile(t, dir, "7_placement.txt", "255,0,255\n255,255,0\n")
	writeFile(t, dir, "7_height.txt", "128, 128, 128\n0, 255, 10\n")

	m, err := list.LoadRawMap(7, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, []byte{0, 255, 0, 0, 0, 0}, m.Pathing)
	assert.Equal(t, []byte{255, 0, 255, 255, 255, 0}, m.Placement)
	assert.Equal(t, []byte{128, 128, 128, 0, 255, 10}, m.Terrain)
}

func TestLoadRawMapErrors(t *testing.T) {
	dir := t.TempDir()
	list, err := LoadMapList(writeFile(t, dir, "map_list.yaml", testMapList))
	require.NoError(t, err)

	_, err = list.LoadRawMap(99, dir)
	assert.ErrorIs(t, err, ErrUnknownMap)

	writeFile(t, dir, "7_pathing.txt", "0,0,0\n")
	writeFile(t, dir, "7_placement.txt", "0,0,0\n0,0,0\n")
	writeFile(t, dir, "7_height.txt", "0,0,0\n0,0,0\n")
	_, err = list.LoadRawMap(7, dir)
	assert.ErrorIs(t, err, ErrLayerSize, "missing row")

	writeFile(t, dir, "7_pathing.txt", "0,0\n0,0,0\n")
	_, err = list.LoadRawMap(7, dir)
	assert.ErrorIs(t, err, ErrLayerSize, "short row")

	writeFile(t, dir, "7_pathing.txt", "0,0,300\n0,0,0\n")
	_, err = list.LoadRawMap(7, dir)
	assert.Error(t, err, "value out of byte range")
}
