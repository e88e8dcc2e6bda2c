package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"github.com/LASTEXILE-CH/commandcenter/internal/observe"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for map scripts.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	failures map[string]int // failed calls per Lua function
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// A missing directory yields an engine with no scripts.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, failures: make(map[string]int)}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load map scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function with the given name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// --- Classifier Bridge ---

// Classifier returns a grid classifier that decodes o's raw bytes through
// Lua where the scripts define classify_walkable(pathing, placement),
// classify_buildable(placement) or decode_height(raw). Missing functions
// keep the fallback. A Lua error falls back for that tile only.
func (e *Engine) Classifier(o observe.Observer, fallback grid.Classifier) grid.Classifier {
	c := fallback

	if e.HasFunction("classify_walkable") {
		c.Walkable = func(x, y int) bool {
			ret, err := e.call("classify_walkable", lua.LNumber(o.Pathing(x, y)), lua.LNumber(o.Placement(x, y)))
			if err != nil {
				return fallbackBool(fallback.Walkable, x, y)
			}
			return lua.LVAsBool(ret)
		}
	}
	if e.HasFunction("classify_buildable") {
		c.Buildable = func(x, y int) bool {
			ret, err := e.call("classify_buildable", lua.LNumber(o.Placement(x, y)))
			if err != nil {
				return fallbackBool(fallback.Buildable, x, y)
			}
			return lua.LVAsBool(ret)
		}
	}
	if e.HasFunction("decode_height") {
		c.Height = func(x, y int) float32 {
			ret, err := e.call("decode_height", lua.LNumber(o.TerrainHeight(x, y)))
			if err != nil {
				if fallback.Height == nil {
					return 0
				}
				return fallback.Height(x, y)
			}
			return float32(lua.LVAsNumber(ret))
		}
	}

	e.log.Debug("lua classifier",
		zap.Bool("walkable", e.HasFunction("classify_walkable")),
		zap.Bool("buildable", e.HasFunction("classify_buildable")),
		zap.Bool("height", e.HasFunction("decode_height")),
	)
	return c
}

func fallbackBool(fn func(x, y int) bool, x, y int) bool {
	if fn == nil {
		return false
	}
	return fn(x, y)
}

// --- Query Bindings ---

// Queries is the read-only map surface exposed to scripts.
type Queries interface {
	Width() int
	Height() int
	IsWalkable(x, y int) bool
	IsBuildable(x, y int) bool
	Sector(x, y int) int
	IsConnected(a, b grid.Tile) bool
	GroundDistance(src, dest grid.Position) int
	ClosestTilesTo(t grid.Tile) []grid.Tile
}

// Bind registers the map query functions as Lua globals. Tile arguments are
// integer tile coordinates; ground_distance measures between tile centres.
func (e *Engine) Bind(q Queries) {
	L := e.vm

	L.SetGlobal("map_size", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(q.Width()))
		L.Push(lua.LNumber(q.Height()))
		return 2
	}))
	L.SetGlobal("is_walkable", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(q.IsWalkable(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	L.SetGlobal("is_buildable", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(q.IsBuildable(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	L.SetGlobal("sector", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(q.Sector(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	L.SetGlobal("is_connected", L.NewFunction(func(L *lua.LState) int {
		a := grid.Tile{X: L.CheckInt(1), Y: L.CheckInt(2)}
		b := grid.Tile{X: L.CheckInt(3), Y: L.CheckInt(4)}
		L.Push(lua.LBool(q.IsConnected(a, b)))
		return 1
	}))
	L.SetGlobal("ground_distance", L.NewFunction(func(L *lua.LState) int {
		src := grid.Tile{X: L.CheckInt(1), Y: L.CheckInt(2)}.Center()
		dest := grid.Tile{X: L.CheckInt(3), Y: L.CheckInt(4)}.Center()
		L.Push(lua.LNumber(q.GroundDistance(src, dest)))
		return 1
	}))
	L.SetGlobal("closest_tiles", L.NewFunction(func(L *lua.LState) int {
		origin := grid.Tile{X: L.CheckInt(1), Y: L.CheckInt(2)}
		limit := L.OptInt(3, -1)
		tiles := q.ClosestTilesTo(origin)
		if limit >= 0 && limit < len(tiles) {
			tiles = tiles[:limit]
		}
		arr := L.CreateTable(len(tiles), 0)
		for _, t := range tiles {
			pt := L.CreateTable(0, 2)
			pt.RawSetString("x", lua.LNumber(t.X))
			pt.RawSetString("y", lua.LNumber(t.Y))
			arr.Append(pt)
		}
		L.Push(arr)
		return 1
	}))
	L.SetGlobal("UNREACHED", lua.LNumber(grid.Unreached))
}

// OnMapReady calls Lua on_map_ready() if defined and returns its string
// result, logging it at info. Scripts call the bound queries from here.
func (e *Engine) OnMapReady() string {
	if !e.HasFunction("on_map_ready") {
		e.log.Debug("lua on_map_ready not defined")
		return ""
	}
	ret, err := e.call("on_map_ready")
	if err != nil {
		return ""
	}
	if ret == lua.LNil {
		return ""
	}
	msg := lua.LVAsString(ret)
	if msg != "" {
		e.log.Info("lua on_map_ready", zap.String("result", msg))
	}
	return msg
}

// call invokes a global Lua function in protected mode and returns its
// first result. Only the first failure of each function is logged.
func (e *Engine) call(name string, args ...lua.LValue) (lua.LValue, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return lua.LNil, fmt.Errorf("lua function %s not found", name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.failures[name]++
		if e.failures[name] == 1 {
			e.log.Error("lua call error, further failures of this function are only counted",
				zap.String("func", name), zap.Error(err))
		}
		return lua.LNil, err
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, nil
}

// Failures returns how many calls to the named Lua function have failed.
func (e *Engine) Failures(name string) int {
	return e.failures[name]
}

// ClassifierFunctions lists the Lua globals Classifier may call.
var ClassifierFunctions = []string{"classify_walkable", "classify_buildable", "decode_height"}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
