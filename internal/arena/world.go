// Package arena assembles a runnable simulation from configuration and a
// scenario: registry, navigation grid, physics, weapons and AI controllers
// registered on one phase-ordered runner.
package arena

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/ai"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/navigation"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
	"github.com/zeusync/arena/internal/core/physics"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/transform"
	"github.com/zeusync/arena/internal/core/weapon"
)

// Deps are the shared services a world reports through. Any of them may be
// nil; Rand defaults to a source seeded from the simulation config.
type Deps struct {
	Log     log.Log
	Bus     bus.EventBus
	Metrics *metrics.Metrics
	Rand    ai.Random
}

type World struct {
	cfg     *config.Config
	log     log.Log
	bus     bus.EventBus
	metrics *metrics.Metrics

	clock    *system.SimClock
	registry *ecs.Registry
	grid     *navigation.Grid
	cache    *navigation.CachedPathfinder
	physics  *physics.Kinematic
	ai       *ai.System
	weapons  *ecs.Store[weapon.MachineGun]
	runner   *system.Runner

	hitSub      bus.Subscription
	killed      []ecs.EntityID
	cacheHits   uint64
	cacheMisses uint64
}

// New builds the world described by sc.
func New(cfg *config.Config, sc *config.Scenario, deps Deps) (*World, error) {
	if deps.Log == nil {
		deps.Log = log.Nop()
	}
	if deps.Bus == nil {
		deps.Bus = bus.New()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}

	grid, err := navigation.NewGrid(sc.Grid.Width, sc.Grid.Depth, cfg.Navigation.Spacing, mgl64.Vec3(sc.Grid.Origin))
	if err != nil {
		return nil, fmt.Errorf("navigation grid: %w", err)
	}
	for _, b := range sc.Grid.Blocked {
		if err := grid.SetBlocked(navigation.Cell{X: b[0], Z: b[1]}, true); err != nil {
			return nil, fmt.Errorf("navigation grid: %w", err)
		}
	}

	w := &World{
		cfg:      cfg,
		log:      deps.Log,
		bus:      deps.Bus,
		metrics:  deps.Metrics,
		clock:    system.NewSimClock(),
		registry: ecs.NewRegistry(nil),
		grid:     grid,
		weapons:  ecs.NewStore[weapon.MachineGun](),
		runner:   system.NewRunner(),
	}
	w.registry.Register(ecs.ComponentWeapon, w.weapons)

	var pathfinder navigation.Pathfinder = navigation.AStar{}
	if cfg.Navigation.CacheSize > 0 {
		w.cache = navigation.NewCachedPathfinder(pathfinder, cfg.Navigation.CacheSize)
		pathfinder = w.cache
	}

	w.physics = physics.NewKinematic(w.registry)
	w.ai = ai.NewSystem(&ai.TickContext{
		Clock:      w.clock,
		Registry:   w.registry,
		Mesh:       grid,
		Pathfinder: pathfinder,
		Speed:      w.physics,
		Visibility: physics.LineOfSight(w.registry, grid),
		Rand:       deps.Rand,
		Log:        deps.Log,
		Bus:        deps.Bus,
		Metrics:    deps.Metrics,
	})
	w.physics.SetSteering(w.ai)

	if err := w.spawn(sc); err != nil {
		return nil, err
	}

	w.hitSub, err = w.bus.Subscribe(weapon.EventHit, w.onHit)
	if err != nil {
		return nil, err
	}

	w.runner.Register(w.ai)
	w.runner.Register(system.Func{P: system.PhasePhysics, Fn: w.physics.Step})
	w.runner.Register(system.Func{P: system.PhaseOutput, Fn: w.reportPathCache})
	w.runner.Register(system.Func{P: system.PhaseCleanup, Fn: w.removeKilled})
	return w, nil
}

func (w *World) spawn(sc *config.Scenario) error {
	byName := make(map[string]ecs.EntityID, len(sc.Entities))
	for _, def := range sc.Entities {
		e := w.registry.Create(def.Name, transform.FromData(def.Transform), def.EntityTags()...)
		if def.Health > 0 {
			e.SetMaxHealth(def.Health)
		}
		byName[def.Name] = e.ID
	}

	for _, def := range sc.Entities {
		id := byName[def.Name]
		if def.Parent != "" {
			if err := w.registry.SetParent(id, byName[def.Parent]); err != nil {
				return fmt.Errorf("entity %q: parent %q: %w", def.Name, def.Parent, err)
			}
		}
		if def.Body != nil {
			w.physics.Add(id, physics.Body{MaxSpeed: def.Body.MaxSpeed, Acceleration: def.Body.Acceleration})
		}

		var gun weapon.Weapon
		if def.Weapon != nil {
			wcfg := w.cfg.Weapon
			if def.Weapon.Damage > 0 {
				wcfg.Damage = def.Weapon.Damage
			}
			if def.Weapon.Range > 0 {
				wcfg.Range = def.Weapon.Range
			}
			mg := weapon.NewMachineGun(id, wcfg, weapon.Deps{
				Registry: w.registry,
				Clock:    w.clock,
				Log:      w.log,
				Bus:      w.bus,
				Metrics:  w.metrics,
			})
			w.weapons.Set(id, mg)
			gun = mg
		}

		if def.AI != nil {
			mode, ok := ai.ParseMode(def.AI.Mode)
			if !ok {
				w.log.Warn("unknown ai mode, using default",
					log.String("entity", def.Name),
					log.String("mode", def.AI.Mode),
					log.Stringer("default", mode),
				)
			}
			c := ai.NewController(id, w.cfg.AI, gun, w.clock.Now())
			if mode != c.Mode() {
				c.SetMode(mode, w.clock.Now())
			}
			w.ai.Add(c)
		}
	}

	w.log.Info("scenario spawned",
		log.String("scenario", sc.Name),
		log.Int("entities", w.registry.Len()),
		log.Int("controllers", w.ai.Len()),
	)
	return nil
}

func (w *World) onHit(e bus.Event) error {
	if hit, ok := e.Data.(weapon.Hit); ok && hit.Killed {
		w.killed = append(w.killed, hit.Target)
	}
	return nil
}

// removeKilled destroys vehicles killed during the tick.
func (w *World) removeKilled(time.Duration) {
	for _, id := range w.killed {
		name := ""
		if e, ok := w.registry.FindEntity(id); ok {
			name = e.Name
		}
		if err := w.registry.Destroy(id); err != nil {
			continue
		}
		w.log.Info("vehicle destroyed", log.Stringer("entity", id), log.String("name", name))
	}
	w.killed = w.killed[:0]
}

func (w *World) reportPathCache(time.Duration) {
	if w.cache == nil {
		return
	}
	hits, misses := w.cache.Stats()
	w.metrics.PathCache(hits-w.cacheHits, misses-w.cacheMisses)
	w.cacheHits, w.cacheMisses = hits, misses
}

// Run ticks the world until ctx is done or the configured tick budget is
// spent. afterTick, when set, runs after every tick on the simulation
// goroutine.
func (w *World) Run(ctx context.Context, afterTick func(tick uint64)) error {
	return system.Loop(ctx, w.runner, w.clock, system.LoopOptions{
		TickRate: w.cfg.Simulation.TickRate,
		MaxTicks: w.cfg.Simulation.MaxTicks,
		Realtime: w.cfg.Simulation.Realtime,
		AfterTick: func(tick uint64, took time.Duration) {
			w.metrics.TickDuration(took)
			if afterTick != nil {
				afterTick(tick)
			}
		},
	})
}

// Close detaches the world from the shared bus.
func (w *World) Close() error {
	return w.bus.Unsubscribe(w.hitSub)
}

// ApplyAIConfig swaps the tuning of every controller, e.g. after a config
// reload. It must run on the simulation goroutine.
func (w *World) ApplyAIConfig(cfg ai.Config) {
	w.cfg.AI = cfg
	for _, id := range w.ai.IDs() {
		if c, ok := w.ai.Get(id); ok {
			c.SetConfig(cfg)
		}
	}
}

func (w *World) Clock() *system.SimClock     { return w.clock }
func (w *World) Registry() *ecs.Registry     { return w.registry }
func (w *World) Grid() *navigation.Grid      { return w.grid }
func (w *World) AI() *ai.System              { return w.ai }
func (w *World) Physics() *physics.Kinematic { return w.physics }
func (w *World) Runner() *system.Runner      { return w.runner }
func (w *World) Bus() bus.EventBus           { return w.bus }

// Weapon returns the gun mounted on id, if any.
func (w *World) Weapon(id ecs.EntityID) (*weapon.MachineGun, bool) {
	return w.weapons.Get(id)
}

// Snapshot returns the controller states.
func (w *World) Snapshot() []ai.State {
	return w.ai.States()
}
