package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseObserve     Phase = iota // 0: advance the engine observation
	PhasePreUpdate                // 1: process last tick's events
	PhaseUpdate                   // 2: map frame update
	PhasePostUpdate               // 3: derived state
	PhaseDiagnostics              // 4: stats, dumps
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
