package system

import (
	"time"

	coresys "github.com/LASTEXILE-CH/commandcenter/internal/core/system"
)

// FrameUpdater is the per-frame hook of the map session.
type FrameUpdater interface {
	OnFrame()
}

// MapSystem advances the map session once per tick: frame counter and
// last-seen stamps.
// Phase 2 (Update).
type MapSystem struct {
	maps FrameUpdater
}

func NewMapSystem(maps FrameUpdater) *MapSystem {
	return &MapSystem{maps: maps}
}

func (s *MapSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MapSystem) Update(_ time.Duration) {
	s.maps.OnFrame()
}
