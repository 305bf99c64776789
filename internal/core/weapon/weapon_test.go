package weapon

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/transform"
)

func spawn(r *ecs.Registry, name string, pos mgl64.Vec3, health float64, tag ecs.Tag) *ecs.Entity {
	e := r.Create(name, transform.NewWith(pos, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()), tag)
	e.SetMaxHealth(health)
	return e
}

func TestMachineGunHitsNearestVehicleOnRay(t *testing.T) {
	r := ecs.NewRegistry(nil)
	shooter := spawn(r, "shooter", mgl64.Vec3{}, 100, ecs.TagAiVehicle)
	near := spawn(r, "near", mgl64.Vec3{10, 0, 1}, 100, ecs.TagVehicle)
	far := spawn(r, "far", mgl64.Vec3{20, 0, 0}, 100, ecs.TagAiVehicle)
	spawn(r, "behind", mgl64.Vec3{-5, 0, 0}, 100, ecs.TagVehicle)

	b := bus.New()
	var hits []Hit
	_, err := b.Subscribe(EventHit, func(e bus.Event) error {
		hits = append(hits, e.Data.(Hit))
		return nil
	})
	require.NoError(t, err)

	clock := &system.ManualClock{}
	gun := NewMachineGun(shooter.ID, DefaultConfig(), Deps{Registry: r, Clock: clock, Bus: b})

	gun.Shoot(mgl64.Vec3{30, 0, 0})
	assert.Equal(t, 80.0, near.Health)
	assert.Equal(t, 100.0, far.Health)
	require.Len(t, hits, 1)
	assert.Equal(t, near.ID, hits[0].Target)
	assert.False(t, hits[0].Killed)
}

func TestMachineGunRateLimit(t *testing.T) {
	r := ecs.NewRegistry(nil)
	shooter := spawn(r, "shooter", mgl64.Vec3{}, 100, ecs.TagAiVehicle)
	target := spawn(r, "target", mgl64.Vec3{0, 0, -10}, 100, ecs.TagVehicle)

	clock := &system.ManualClock{}
	cfg := DefaultConfig()
	gun := NewMachineGun(shooter.ID, cfg, Deps{Registry: r, Clock: clock})

	gun.Shoot(mgl64.Vec3{0, 0, -10})
	gun.Shoot(mgl64.Vec3{0, 0, -10})
	assert.Equal(t, uint64(1), gun.Shots())
	assert.Equal(t, 80.0, target.Health)

	clock.Advance(cfg.TimeBetweenShots - time.Millisecond)
	gun.Shoot(mgl64.Vec3{0, 0, -10})
	assert.Equal(t, uint64(1), gun.Shots())

	clock.Advance(time.Millisecond)
	gun.Shoot(mgl64.Vec3{0, 0, -10})
	assert.Equal(t, uint64(2), gun.Shots())
	assert.Equal(t, 60.0, target.Health)
}

func TestMachineGunIgnoresDeadAndOutOfRange(t *testing.T) {
	r := ecs.NewRegistry(nil)
	shooter := spawn(r, "shooter", mgl64.Vec3{}, 100, ecs.TagAiVehicle)
	dead := spawn(r, "dead", mgl64.Vec3{5, 0, 0}, 100, ecs.TagVehicle)
	dead.TakeDamage(100)
	distant := spawn(r, "distant", mgl64.Vec3{500, 0, 0}, 100, ecs.TagVehicle)

	clock := &system.ManualClock{}
	gun := NewMachineGun(shooter.ID, DefaultConfig(), Deps{Registry: r, Clock: clock})
	gun.Shoot(mgl64.Vec3{600, 0, 0})

	assert.Equal(t, uint64(1), gun.Shots())
	assert.Equal(t, 100.0, distant.Health)
	assert.Zero(t, dead.Health)

	assert.NotPanics(t, func() { gun.Shoot(mgl64.Vec3{}) })
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	cfg := DefaultConfig()
	cfg.Range = 0
	cfg.Damage = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range")
	assert.Contains(t, err.Error(), "damage")
}
