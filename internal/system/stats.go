package system

import (
	"time"

	coresys "github.com/LASTEXILE-CH/commandcenter/internal/core/system"
	"github.com/LASTEXILE-CH/commandcenter/internal/grid"
	"go.uber.org/zap"
)

// StatsSource exposes the counters StatsSystem reports.
type StatsSource interface {
	Frame() int
	CachedMaps() int
	CacheStats() grid.CacheStats
}

// StatsSystem logs distance-map cache activity every interval ticks.
// Phase 4 (Diagnostics). An interval of 0 disables it.
type StatsSystem struct {
	src      StatsSource
	log      *zap.Logger
	interval int
	ticks    int
}

func NewStatsSystem(src StatsSource, interval int, log *zap.Logger) *StatsSystem {
	return &StatsSystem{src: src, log: log, interval: interval}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseDiagnostics }

func (s *StatsSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.ticks++
	if s.ticks < s.interval {
		return
	}
	s.ticks = 0

	st := s.src.CacheStats()
	s.log.Info("map cache",
		zap.Int("frame", s.src.Frame()),
		zap.Int("cached", s.src.CachedMaps()),
		zap.Int("computed", st.Computed),
		zap.Int("hits", st.Hits),
		zap.Int("evicted", st.Evicted),
		zap.Int("clears", st.Clears),
	)
}
