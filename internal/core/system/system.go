// Package system schedules simulation systems and owns simulation time.
package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // scenario events, debug commands
	PhaseAI                   // controllers decide
	PhasePhysics              // vehicles move
	PhaseWeapons              // damage resolution
	PhaseOutput               // snapshots, metrics
	PhaseCleanup              // destroy dead entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseAI:
		return "ai"
	case PhasePhysics:
		return "physics"
	case PhaseWeapons:
		return "weapons"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// System is a unit of per-tick work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
