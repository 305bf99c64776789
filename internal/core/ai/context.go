package ai

import (
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/navigation"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
	"github.com/zeusync/arena/internal/core/physics"
	"github.com/zeusync/arena/internal/core/system"
)

// Random is the source of the mode re-roll draws. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// TickContext carries everything a controller reads or calls during a tick.
// The registry owns the transform hierarchy. Log, Bus and Metrics are
// optional.
type TickContext struct {
	Clock      system.Clock
	Registry   *ecs.Registry
	Mesh       navigation.Mesh
	Pathfinder navigation.Pathfinder
	Speed      physics.SpeedQuery
	Visibility physics.VisibilityQuery
	Rand       Random

	Log     log.Log
	Bus     bus.EventBus
	Metrics *metrics.Metrics
}

func (tc *TickContext) logger() log.Log {
	if tc.Log == nil {
		return log.Nop()
	}
	return tc.Log
}

func (tc *TickContext) spacing() float64 {
	if tc.Mesh == nil {
		return 0
	}
	return tc.Mesh.Spacing()
}

// Event types published by controllers.
const (
	EventModeChanged    = "ai.mode_changed"
	EventTargetAcquired = "ai.target_acquired"
	EventWeaponFired    = "ai.weapon_fired"
	EventPathCommitted  = "ai.path_committed"
)

type ModeChanged struct {
	Entity ecs.EntityID
	From   Mode
	To     Mode
}

type TargetAcquired struct {
	Entity ecs.EntityID
	Target ecs.EntityID
	Mode   Mode
}

type WeaponFired struct {
	Entity ecs.EntityID
	Target ecs.EntityID
}

type PathCommitted struct {
	Entity ecs.EntityID
	Length int
}

func (tc *TickContext) publish(typ string, source ecs.EntityID, data any) {
	if tc.Bus == nil {
		return
	}
	if err := tc.Bus.Publish(bus.NewEvent(typ, source.String(), tc.Clock.Now(), data)); err != nil {
		tc.logger().Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
