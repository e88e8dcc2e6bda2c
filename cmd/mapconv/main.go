// mapconv converts an ASCII map drawing into CSV tile layers and prints the
// matching map_list.yaml entry.
//
// Drawing legend: '#' blocked, '.' buildable ground, ':' walkable-only
// ground, '0'-'9' buildable ground at height level n. The first line is the
// northern (top) edge of the map.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LASTEXILE-CH/commandcenter/internal/data"
	"gopkg.in/yaml.v3"
)

const (
	pathingBlocked   = 255
	placementAllowed = 255
	heightStep       = 25 // raw height byte per level digit
)

type layers struct {
	width, height int
	pathing       [][]byte
	placement     [][]byte
	terrain       [][]byte
}

func main() {
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "Usage: mapconv <map.txt> <out-dir> <map-id> <name>")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3], os.Args[4]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inPath, outDir, idArg, name string) error {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return fmt.Errorf("map id %q: %w", idArg, err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	var rows []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	l, err := convert(rows)
	if err != nil {
		return fmt.Errorf("convert %s: %w", inPath, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	info := data.MapInfo{
		MapID:      id,
		Name:       name,
		Width:      l.width,
		Height:     l.height,
		Pathing:    fmt.Sprintf("%d_pathing.txt", id),
		Placement:  fmt.Sprintf("%d_placement.txt", id),
		HeightFile: fmt.Sprintf("%d_height.txt", id),
		Start:      data.Spot{X: float64(l.width) / 2, Y: float64(l.height) / 2},
	}
	for _, f := range []struct {
		name  string
		cells [][]byte
	}{
		{info.Pathing, l.pathing},
		{info.Placement, l.placement},
		{info.HeightFile, l.terrain},
	} {
		if err := writeLayer(filepath.Join(outDir, f.name), name, f.cells); err != nil {
			return err
		}
	}

	out, err := yaml.Marshal([]data.MapInfo{info})
	if err != nil {
		return fmt.Errorf("marshal map entry: %w", err)
	}
	fmt.Printf("# map_list.yaml entry (append under maps:)\n%s", out)
	fmt.Fprintf(os.Stderr, "Wrote %dx%d map %d to %s\n", l.width, l.height, id, outDir)
	return nil
}

// convert decodes the drawing. Rows keep drawing order, which is the engine
// layer order (top row first).
func convert(rows []string) (*layers, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty map")
	}
	w := len(rows[0])
	l := &layers{width: w, height: len(rows)}
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("line %d: width %d, want %d", i+1, len(row), w)
		}
		path := make([]byte, w)
		place := make([]byte, w)
		terrain := make([]byte, w)
		for x := 0; x < w; x++ {
			switch c := row[x]; {
			case c == '#':
				path[x] = pathingBlocked
			case c == '.':
				place[x] = placementAllowed
			case c == ':':
			case c >= '0' && c <= '9':
				place[x] = placementAllowed
				terrain[x] = (c - '0') * heightStep
			default:
				return nil, fmt.Errorf("line %d col %d: unknown tile %q", i+1, x+1, c)
			}
		}
		l.pathing = append(l.pathing, path)
		l.placement = append(l.placement, place)
		l.terrain = append(l.terrain, terrain)
	}
	return l, nil
}

func writeLayer(path, mapName string, cells [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# %s: %s, auto-generated by mapconv\n", mapName, filepath.Base(path))
	for _, row := range cells {
		for x, b := range row {
			if x > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(strconv.Itoa(int(b)))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
