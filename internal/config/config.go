package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Match     MatchConfig     `toml:"match"`
	Cache     CacheConfig     `toml:"cache"`
	Placement PlacementConfig `toml:"placement"`
	Scripting ScriptingConfig `toml:"scripting"`
	Debug     DebugConfig     `toml:"debug"`
	Logging   LoggingConfig   `toml:"logging"`
}

type MatchConfig struct {
	MapList  string        `toml:"map_list"` // map_list.yaml path
	TileDir  string        `toml:"tile_dir"` // directory of CSV tile layers
	MapID    int           `toml:"map_id"`
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until signalled

	SightRadius float64      `toml:"sight_radius"` // vision around the start spot; 0 disables
	Sight       [][3]float64 `toml:"sight"`        // extra [x, y, radius] vision sources
}

type CacheConfig struct {
	MaxDistanceMaps int      `toml:"max_distance_maps"` // cleared once more than this many are held
	WarmWorkers     int      `toml:"warm_workers"`
	WarmOrigins     [][2]int `toml:"warm_origins"` // [x, y] tiles precomputed at start
}

type PlacementConfig struct {
	DepotRule string `toml:"depot_rule"` // expr source; empty disables depot marking
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables Lua
}

type DebugConfig struct {
	DumpWalkable   string `toml:"dump_walkable"`
	DumpViewport   string `toml:"dump_viewport"`
	ViewportRadius int    `toml:"viewport_radius"`
	DrawSectors    bool   `toml:"draw_sectors"`
	DrawTileInfo   bool   `toml:"draw_tile_info"`
	StatsInterval  int    `toml:"stats_interval"` // ticks between cache stat logs; 0 disables
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Match.TickRate <= 0 {
		return fmt.Errorf("match.tick_rate must be positive, got %s", c.Match.TickRate)
	}
	if c.Cache.MaxDistanceMaps < 1 {
		return fmt.Errorf("cache.max_distance_maps must be at least 1, got %d", c.Cache.MaxDistanceMaps)
	}
	if c.Match.SightRadius < 0 {
		return fmt.Errorf("match.sight_radius must not be negative, got %g", c.Match.SightRadius)
	}
	if c.Match.MaxTicks < 0 {
		return fmt.Errorf("match.max_ticks must not be negative, got %d", c.Match.MaxTicks)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Match: MatchConfig{
			MapList:  "data/yaml/map_list.yaml",
			TileDir:  "data/maps",
			MapID:    1,
			TickRate: 42 * time.Millisecond, // ~24 frames per second

			SightRadius: 10,
		},
		Cache: CacheConfig{
			MaxDistanceMaps: 50,
			WarmWorkers:     4,
		},
		Placement: PlacementConfig{
			DepotRule: "BuildableWithin(2)",
		},
		Debug: DebugConfig{
			ViewportRadius: 16,
			DrawSectors:    true,
			DrawTileInfo:   true,
			StatsInterval:  240,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
