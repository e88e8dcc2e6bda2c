package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/LASTEXILE-CH/commandcenter/internal/config"
	"github.com/LASTEXILE-CH/commandcenter/internal/core/event"
	coresys "github.com/LASTEXILE-CH/commandcenter/internal/core/system"
	"github.com/LASTEXILE-CH/commandcenter/internal/data"
	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"github.com/LASTEXILE-CH/commandcenter/internal/maptools"
	"github.com/LASTEXILE-CH/commandcenter/internal/observe"
	"github.com/LASTEXILE-CH/commandcenter/internal/placement"
	"github.com/LASTEXILE-CH/commandcenter/internal/scripting"
	"github.com/LASTEXILE-CH/commandcenter/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Match harness ─────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/commandcenter.toml"
	if p := os.Getenv("COMMANDCENTER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load map
	printSection("Map")
	maps, err := data.LoadMapList(cfg.Match.MapList)
	if err != nil {
		return fmt.Errorf("load map list: %w", err)
	}
	raw, err := maps.LoadRawMap(cfg.Match.MapID, cfg.Match.TileDir)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	printStat("maps listed", maps.Count())
	printOK(fmt.Sprintf("%s (%dx%d)", raw.Info.Name, raw.Width, raw.Height))

	replay := observe.NewReplay(raw)
	sights := sightSources(raw.Info.Start, cfg.Match)
	replay.SetSight(sights)
	printStat("sight sources", len(sights))
	opts := maptools.Options{
		Classifier: observe.Classifier(replay),
		Policy:     grid.ClearAllPolicy{Limit: cfg.Cache.MaxDistanceMaps},
	}

	// 4. Optional scripts and depot rule
	var lua *scripting.Engine
	if cfg.Scripting.Dir != "" {
		lua, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer lua.Close()
		opts.Classifier = lua.Classifier(replay, opts.Classifier)
	}
	if cfg.Placement.DepotRule != "" {
		rule, err := placement.Compile(cfg.Placement.DepotRule)
		if err != nil {
			return fmt.Errorf("depot rule: %w", err)
		}
		opts.Depot = rule
	}

	// 5. Analyse the map
	bus := event.NewBus()
	mt := maptools.New(replay, opts, log, bus)
	mt.OnStart()
	printStat("sectors", mt.SectorCount())

	if lua != nil {
		for _, fn := range scripting.ClassifierFunctions {
			if n := lua.Failures(fn); n > 0 {
				log.Warn("lua classifier fell back to built-in decoding",
					zap.String("func", fn), zap.Int("tiles", n))
			}
		}
		lua.Bind(mt)
		lua.OnMapReady()
	}

	if len(cfg.Cache.WarmOrigins) > 0 {
		origins := make([]grid.Tile, 0, len(cfg.Cache.WarmOrigins))
		for _, o := range cfg.Cache.WarmOrigins {
			origins = append(origins, grid.Tile{X: o[0], Y: o[1]})
		}
		n, err := mt.Warm(context.Background(), origins, cfg.Cache.WarmWorkers)
		if err != nil {
			return err
		}
		printStat("distance maps warmed", n)
	}

	if err := writeDumps(mt, cfg.Debug); err != nil {
		return err
	}
	fmt.Println()

	// 6. Register systems
	runner := coresys.NewRunner()
	runner.Register(system.NewObserveSystem(replay))
	runner.Register(system.NewEventDispatchSystem(bus, log))
	runner.Register(system.NewMapSystem(mt))
	runner.Register(system.NewStatsSystem(mt, cfg.Debug.StatsInterval, log))

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Match.TickRate)
	defer ticker.Stop()

	log.Info("match loop started",
		zap.Duration("tick", cfg.Match.TickRate),
		zap.Int("max_ticks", cfg.Match.MaxTicks),
	)

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Match.TickRate)
			if cfg.Match.MaxTicks > 0 && mt.Frame() >= cfg.Match.MaxTicks {
				logFinal(log, mt)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			logFinal(log, mt)
			return nil
		}
	}
}

// sightSources seeds vision at the start spot plus any configured sources.
func sightSources(start data.Spot, cfg config.MatchConfig) []observe.Sight {
	var out []observe.Sight
	if cfg.SightRadius > 0 {
		out = append(out, observe.Sight{
			Tile:   grid.Position{X: start.X, Y: start.Y}.Tile(),
			Radius: cfg.SightRadius,
		})
	}
	for _, s := range cfg.Sight {
		out = append(out, observe.Sight{
			Tile:   grid.Position{X: s[0], Y: s[1]}.Tile(),
			Radius: s[2],
		})
	}
	return out
}

func writeDumps(mt *maptools.MapTools, cfg config.DebugConfig) error {
	if cfg.DumpWalkable != "" {
		if err := mt.PrintMap(cfg.DumpWalkable); err != nil {
			return err
		}
		printOK("walkable map -> " + cfg.DumpWalkable)
	}
	if cfg.DumpViewport != "" {
		err := mt.DumpViewport(cfg.DumpViewport, grid.ViewOptions{
			Radius:       cfg.ViewportRadius,
			DrawSectors:  cfg.DrawSectors,
			DrawTileInfo: cfg.DrawTileInfo,
		})
		if err != nil {
			return err
		}
		printOK("viewport -> " + cfg.DumpViewport)
	}
	return nil
}

func logFinal(log *zap.Logger, mt *maptools.MapTools) {
	st := mt.CacheStats()
	log.Info("match stopped",
		zap.Int("frames", mt.Frame()),
		zap.Int("maps_computed", st.Computed),
		zap.Int("cache_hits", st.Hits),
		zap.Int("cache_clears", st.Clears),
	)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
