// Package physics provides the speed and visibility queries the AI consumes
// and a small kinematic integrator for headless runs.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
)

// SpeedQuery reports signed speed along the vehicle's forward axis.
type SpeedQuery interface {
	ForwardSpeed(id ecs.EntityID) float64
}

// VisibilityQuery answers line-of-sight checks.
type VisibilityQuery interface {
	Visible(observer, target ecs.EntityID) bool
}

type SpeedFunc func(id ecs.EntityID) float64

func (f SpeedFunc) ForwardSpeed(id ecs.EntityID) float64 { return f(id) }

type VisibilityFunc func(observer, target ecs.EntityID) bool

func (f VisibilityFunc) Visible(observer, target ecs.EntityID) bool { return f(observer, target) }

var (
	AlwaysVisible VisibilityQuery = VisibilityFunc(func(_, _ ecs.EntityID) bool { return true })
	NeverVisible  VisibilityQuery = VisibilityFunc(func(_, _ ecs.EntityID) bool { return false })
)

// ConstantSpeed reports the same speed for every vehicle.
type ConstantSpeed float64

func (s ConstantSpeed) ForwardSpeed(ecs.EntityID) float64 { return float64(s) }

// Occluder answers line-of-sight between world points. *navigation.Grid
// implements it.
type Occluder interface {
	LineOfSight(a, b mgl64.Vec3) bool
}

// LineOfSight checks visibility between the current positions of two
// entities. Unknown entities are never visible.
func LineOfSight(registry *ecs.Registry, occluder Occluder) VisibilityQuery {
	return VisibilityFunc(func(observer, target ecs.EntityID) bool {
		from, ok := registry.Position(observer)
		if !ok {
			return false
		}
		to, ok := registry.Position(target)
		if !ok {
			return false
		}
		return occluder.LineOfSight(from, to)
	})
}
