// Package weapon implements vehicle-mounted weapons.
package weapon

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
	"github.com/zeusync/arena/internal/core/system"
)

// Weapon commands are fire-and-forget.
type Weapon interface {
	Charge()
	Shoot(at mgl64.Vec3)
}

// EventHit is published when a shot damages a vehicle.
const EventHit = "weapon.hit"

// Hit describes a shot that landed.
type Hit struct {
	Shooter ecs.EntityID
	Target  ecs.EntityID
	Point   mgl64.Vec3
	Damage  float64
	Killed  bool
}

type Config struct {
	Damage           float64       `toml:"damage"`
	TimeBetweenShots time.Duration `toml:"time_between_shots"`
	Range            float64       `toml:"range"`
	HitRadius        float64       `toml:"hit_radius"`
}

func DefaultConfig() Config {
	return Config{
		Damage:           20,
		TimeBetweenShots: 100 * time.Millisecond,
		Range:            100,
		HitRadius:        2,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Damage < 0 {
		errs = append(errs, fmt.Errorf("damage %v must not be negative", c.Damage))
	}
	if c.TimeBetweenShots < 0 {
		errs = append(errs, fmt.Errorf("time_between_shots %v must not be negative", c.TimeBetweenShots))
	}
	if c.Range <= 0 {
		errs = append(errs, fmt.Errorf("range %v must be positive", c.Range))
	}
	if c.HitRadius <= 0 {
		errs = append(errs, fmt.Errorf("hit_radius %v must be positive", c.HitRadius))
	}
	return errors.Join(errs...)
}

// Deps are the collaborators a MachineGun reports through. Log, Bus and
// Metrics may be nil.
type Deps struct {
	Registry *ecs.Registry
	Clock    system.Clock
	Log      log.Log
	Bus      bus.EventBus
	Metrics  *metrics.Metrics
}

// MachineGun fires hitscan rounds limited by TimeBetweenShots. A shot travels
// from the owner toward the aim point and damages the nearest live vehicle
// within HitRadius of the ray.
type MachineGun struct {
	owner ecs.EntityID
	cfg   Config
	deps  Deps

	nextShot time.Duration
	fired    bool
	shots    uint64
}

var _ Weapon = (*MachineGun)(nil)

func NewMachineGun(owner ecs.EntityID, cfg Config, deps Deps) *MachineGun {
	if deps.Log == nil {
		deps.Log = log.Nop()
	}
	return &MachineGun{owner: owner, cfg: cfg, deps: deps}
}

// Charge is a no-op: machine guns are always ready.
func (g *MachineGun) Charge() {}

func (g *MachineGun) Shoot(at mgl64.Vec3) {
	now := g.deps.Clock.Now()
	if g.fired && now < g.nextShot {
		return
	}
	g.fired = true
	g.nextShot = now + g.cfg.TimeBetweenShots
	g.shots++
	g.deps.Metrics.ShotFired()

	origin, ok := g.deps.Registry.Position(g.owner)
	if !ok {
		return
	}
	target, point, ok := g.raycast(origin, at.Sub(origin))
	if !ok {
		g.deps.Log.Debug("shot missed",
			log.Stringer("shooter", g.owner),
			log.Duration("at", now),
		)
		return
	}

	killed := target.TakeDamage(g.cfg.Damage)
	g.deps.Metrics.DamageDealt(g.cfg.Damage)
	g.deps.Log.Debug("shot hit",
		log.Stringer("shooter", g.owner),
		log.Stringer("target", target.ID),
		log.Float64("damage", g.cfg.Damage),
		log.Float64("health", target.Health),
	)

	if g.deps.Bus != nil {
		hit := Hit{Shooter: g.owner, Target: target.ID, Point: point, Damage: g.cfg.Damage, Killed: killed}
		if err := g.deps.Bus.Publish(bus.NewEvent(EventHit, g.owner.String(), now, hit)); err != nil {
			g.deps.Log.Warn("hit handler failed", log.Error(err))
		}
	}
}

// Shots counts rounds fired, hits or misses.
func (g *MachineGun) Shots() uint64 { return g.shots }

func (g *MachineGun) raycast(origin, direction mgl64.Vec3) (*ecs.Entity, mgl64.Vec3, bool) {
	length := direction.Len()
	if length == 0 {
		return nil, mgl64.Vec3{}, false
	}
	dir := direction.Mul(1 / length)

	var (
		best      *ecs.Entity
		bestPoint mgl64.Vec3
		bestT     = math.Inf(1)
	)
	for _, e := range g.deps.Registry.EntitiesByTag(ecs.VehicleTags...) {
		if e.ID == g.owner || !e.Alive() {
			continue
		}
		p, ok := g.deps.Registry.Position(e.ID)
		if !ok {
			continue
		}
		t := p.Sub(origin).Dot(dir)
		if t < 0 || t > g.cfg.Range {
			continue
		}
		closest := origin.Add(dir.Mul(t))
		if closest.Sub(p).Len() > g.cfg.HitRadius {
			continue
		}
		if t < bestT {
			best, bestPoint, bestT = e, closest, t
		}
	}
	return best, bestPoint, best != nil
}
