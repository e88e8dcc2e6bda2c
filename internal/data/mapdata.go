package data

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownMap is returned when a map id is not in the map list.
	ErrUnknownMap = errors.New("unknown map")
	// ErrLayerSize is returned when a tile layer has fewer cells than the
	// map dimensions require.
	ErrLayerSize = errors.New("tile layer size mismatch")
)

// PowerSpot is a power source declared in the map list.
type PowerSpot struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// Spot is a world position in the map list.
type Spot struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// MapInfo holds metadata for a single map, loaded from map_list.yaml.
type MapInfo struct {
	MapID      int         `yaml:"map_id"`
	Name       string      `yaml:"name"`
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	Pathing    string      `yaml:"pathing"`     // pathing layer file, relative to the tile dir
	Placement  string      `yaml:"placement"`   // placement layer file
	HeightFile string      `yaml:"height_file"` // terrain height layer file
	Power      []PowerSpot `yaml:"power"`
	Start      Spot        `yaml:"start"` // initial camera position
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// MapList provides map metadata lookups.
type MapList struct {
	maps map[int]*MapInfo
}

// LoadMapList loads map metadata from YAML. Entries with non-positive
// dimensions are skipped.
func LoadMapList(yamlPath string) (*MapList, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", yamlPath, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map list: %w", err)
	}

	list := &MapList{maps: make(map[int]*MapInfo, len(file.Maps))}
	for i := range file.Maps {
		info := file.Maps[i]
		if info.Width <= 0 || info.Height <= 0 {
			continue
		}
		list.maps[info.MapID] = &info
	}
	return list, nil
}

// Count returns the number of maps in the list.
func (l *MapList) Count() int {
	return len(l.maps)
}

// Get returns metadata for a map, or nil if not found.
func (l *MapList) Get(mapID int) *MapInfo {
	return l.maps[mapID]
}

// RawMap holds the undecoded engine layers of one map. Each layer is a flat
// array of Width*Height bytes stored bottom-up: the first file row is the
// top of the map (highest y), as the engine delivers it.
type RawMap struct {
	Info      MapInfo
	Width     int
	Height    int
	Pathing   []byte
	Placement []byte
	Terrain   []byte
}

// LoadRawMap reads the three tile layers of a map from tileDir.
func (l *MapList) LoadRawMap(mapID int, tileDir string) (*RawMap, error) {
	info := l.Get(mapID)
	if info == nil {
		return nil, fmt.Errorf("map %d: %w", mapID, ErrUnknownMap)
	}
	return LoadRawMap(*info, tileDir)
}

// LoadRawMap reads the layers described by info from tileDir.
func LoadRawMap(info MapInfo, tileDir string) (*RawMap, error) {
	m := &RawMap{Info: info, Width: info.Width, Height: info.Height}

	var err error
	if m.Pathing, err = loadTileFile(tileDir, info.Pathing, info.Width, info.Height); err != nil {
		return nil, err
	}
	if m.Placement, err = loadTileFile(tileDir, info.Placement, info.Width, info.Height); err != nil {
		return nil, err
	}
	if m.Terrain, err = loadTileFile(tileDir, info.HeightFile, info.Width, info.Height); err != nil {
		return nil, err
	}
	return m, nil
}

// loadTileFile reads a CSV tile file: each line is a row of comma-separated
// byte values. Blank lines and lines starting with '#' are skipped.
func loadTileFile(dir, name string, width, height int) ([]byte, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile layer: %w", err)
	}
	defer f.Close()

	tiles := make([]byte, width*height)

	scanner := bufio.NewScanner(f)
	// Rows are up to ~4 chars per cell; 256-wide maps fit comfortably.
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	row := 0
	for scanner.Scan() && row < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		x := 0
		for _, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			val, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%s row %d col %d: %w", path, row, x, err)
			}
			tiles[row*width+x] = byte(val)
			x++
		}
		if x < width {
			return nil, fmt.Errorf("%s row %d has %d cells, want %d: %w", path, row, x, width, ErrLayerSize)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	if row < height {
		return nil, fmt.Errorf("%s has %d rows, want %d: %w", path, row, height, ErrLayerSize)
	}
	return tiles, nil
}
