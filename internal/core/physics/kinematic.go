package physics

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/transform"
)

// Steering supplies the point a vehicle is currently driving toward.
type Steering interface {
	Waypoint(id ecs.EntityID) (mgl64.Vec3, bool)
}

// Body is the kinematic state of one vehicle.
type Body struct {
	Velocity     mgl64.Vec3
	MaxSpeed     float64
	Acceleration float64
}

// Kinematic moves vehicles on the XZ plane toward their steering point,
// turning each transform to face its travel direction. It ignores collisions.
type Kinematic struct {
	registry *ecs.Registry
	bodies   *ecs.Store[Body]
	steering Steering
}

var _ SpeedQuery = (*Kinematic)(nil)

func NewKinematic(registry *ecs.Registry) *Kinematic {
	k := &Kinematic{
		registry: registry,
		bodies:   ecs.NewStore[Body](),
	}
	registry.Register(ecs.ComponentVehicle, k.bodies)
	return k
}

// SetSteering must be called before the first Step; until then vehicles coast.
func (k *Kinematic) SetSteering(s Steering) {
	k.steering = s
}

func (k *Kinematic) Add(id ecs.EntityID, body Body) {
	k.bodies.Set(id, &body)
}

func (k *Kinematic) Body(id ecs.EntityID) (*Body, bool) {
	return k.bodies.Get(id)
}

// ForwardSpeed is velocity projected on the transform's forward axis.
func (k *Kinematic) ForwardSpeed(id ecs.EntityID) float64 {
	body, ok := k.bodies.Get(id)
	if !ok {
		return 0
	}
	t, ok := k.registry.Transform(id)
	if !ok {
		return 0
	}
	return body.Velocity.Dot(transform.SafeNormalize(t.Forward()))
}

// Step integrates every body by dt.
func (k *Kinematic) Step(dt time.Duration) {
	seconds := dt.Seconds()
	if seconds <= 0 {
		return
	}
	k.bodies.Each(func(id ecs.EntityID, body *Body) {
		t, ok := k.registry.Transform(id)
		if !ok {
			return
		}

		desired := mgl64.Vec3{}
		if k.steering != nil {
			if target, ok := k.steering.Waypoint(id); ok {
				delta := target.Sub(t.GlobalPosition())
				delta[1] = 0
				desired = transform.SafeNormalize(delta).Mul(body.MaxSpeed)
			}
		}

		change := desired.Sub(body.Velocity)
		if limit := body.Acceleration * seconds; body.Acceleration > 0 && change.Len() > limit {
			change = change.Normalize().Mul(limit)
		}
		body.Velocity = body.Velocity.Add(change)

		if body.Velocity.Len() == 0 {
			return
		}
		t.Translate(body.Velocity.Mul(seconds))
		t.LookInDirection(body.Velocity)
	})
}
