package system

import (
	"time"

	coresys "github.com/LASTEXILE-CH/commandcenter/internal/core/system"
)

// Advancer is an engine observation that refreshes once per frame.
type Advancer interface {
	Advance()
}

// ObserveSystem refreshes the engine's visibility before the map reads it.
// Phase 0 (Observe).
type ObserveSystem struct {
	obs Advancer
}

func NewObserveSystem(obs Advancer) *ObserveSystem {
	return &ObserveSystem{obs: obs}
}

func (s *ObserveSystem) Phase() coresys.Phase { return coresys.PhaseObserve }

func (s *ObserveSystem) Update(_ time.Duration) {
	s.obs.Advance()
}
