package system

import (
	"time"

	"github.com/LASTEXILE-CH/commandcenter/internal/core/event"
	coresys "github.com/LASTEXILE-CH/commandcenter/internal/core/system"
	"go.uber.org/zap"
)

// EventDispatchSystem delivers last tick's events.
// Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
	log *zap.Logger
}

// NewEventDispatchSystem also subscribes the map event loggers.
func NewEventDispatchSystem(bus *event.Bus, log *zap.Logger) *EventDispatchSystem {
	event.Subscribe(bus, func(e event.SectorsComputed) {
		log.Info("sectors computed", zap.Int("sectors", e.Sectors), zap.Int("walkable", e.Walkable))
	})
	event.Subscribe(bus, func(e event.CacheCleared) {
		log.Debug("distance maps dropped", zap.Int("frame", e.Frame), zap.Int("dropped", e.Dropped))
	})
	event.Subscribe(bus, func(e event.DistanceMapsWarmed) {
		log.Info("distance maps ready", zap.Int("count", e.Count))
	})
	return &EventDispatchSystem{bus: bus, log: log}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
