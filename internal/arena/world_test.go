package arena

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/ai"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/navigation"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const duel = `
name: duel
grid:
  width: 40
  depth: 40
  origin: [-20, 0, -20]
  blocked:
    - [30, 30]
entities:
  - name: bot
    tags: [AiVehicle]
    health: 100
    ai:
      mode: Chase
    weapon:
      damage: 50
    body:
      max_speed: 5
      acceleration: 20
  - name: turret
    parent: bot
    transform:
      position: [0, 1, 0]
  - name: target
    tags: [Vehicle]
    health: 100
    transform:
      position: [0, 0, -10]
  - name: drone
    tags: [AiVehicle]
    health: 1000
    transform:
      position: [15, 0, 15]
    ai:
      mode: Hover
`

func newTestWorld(t *testing.T, deps Deps) *World {
	t.Helper()
	sc, err := config.LoadScenario(strings.NewReader(duel))
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Simulation.TickRate = 20
	cfg.Simulation.MaxTicks = 20
	cfg.Simulation.Realtime = false

	w, err := New(cfg, sc, deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNewSpawnsScenario(t *testing.T) {
	w := newTestWorld(t, Deps{})

	bot, ok := w.Registry().FindByName("bot")
	require.True(t, ok)
	turret, ok := w.Registry().FindByName("turret")
	require.True(t, ok)

	pos, ok := w.Registry().Position(turret.ID)
	require.True(t, ok)
	assert.InDelta(t, 0, pos.Sub(mgl64.Vec3{0, 1, 0}).Len(), 1e-9, "got %v", pos)

	c, ok := w.AI().Get(bot.ID)
	require.True(t, ok)
	assert.Equal(t, ai.ModeAttack, c.Mode())

	_, ok = w.Weapon(bot.ID)
	assert.True(t, ok)
	_, ok = w.Physics().Body(bot.ID)
	assert.True(t, ok)

	assert.Equal(t, 2, w.AI().Len())
	assert.Equal(t, 4, w.Runner().Len())
	assert.False(t, w.Grid().Walkable(navigationCell(30, 30)))
}

func TestUnknownModeWarnsAndDefaults(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := newTestWorld(t, Deps{Log: log.FromZap(zap.New(core))})

	drone, ok := w.Registry().FindByName("drone")
	require.True(t, ok)
	c, ok := w.AI().Get(drone.ID)
	require.True(t, ok)
	assert.Equal(t, ai.ModeWaypoint, c.Mode())

	entries := logs.FilterMessage("unknown ai mode, using default").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Hover", entries[0].ContextMap()["mode"])
}

func TestRunKillsAndRemovesTarget(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := bus.New()
	var hits []bus.Event
	_, err := b.Subscribe("weapon.hit", func(e bus.Event) error {
		hits = append(hits, e)
		return nil
	})
	require.NoError(t, err)

	w := newTestWorld(t, Deps{Bus: b, Metrics: metrics.New(reg)})
	target, _ := w.Registry().FindByName("target")
	bot, _ := w.Registry().FindByName("bot")
	// shots land at 50ms and 150ms
	w.cfg.Simulation.MaxTicks = 3

	var ticks uint64
	require.NoError(t, w.Run(context.Background(), func(tick uint64) { ticks = tick }))

	assert.Equal(t, uint64(3), ticks)
	assert.Equal(t, 150*time.Millisecond, w.Clock().Now())
	assert.Len(t, hits, 2, "two 50 damage rounds kill a 100 health target")
	assert.False(t, w.Registry().IsAlive(target.ID))
	assert.True(t, w.Registry().IsAlive(bot.ID))

	gun, _ := w.Weapon(bot.ID)
	assert.Equal(t, uint64(2), gun.Shots())

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "arena_simulation_tick_duration_seconds" {
			found = true
			assert.Equal(t, uint64(3), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestRunHonoursCancel(t *testing.T) {
	w := newTestWorld(t, Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx, nil), context.Canceled)
	assert.Zero(t, w.Runner().Ticks())
}

func TestApplyAIConfig(t *testing.T) {
	w := newTestWorld(t, Deps{})
	cfg := ai.DefaultConfig()
	cfg.EngagementRange = 5
	w.ApplyAIConfig(cfg)

	for _, id := range w.AI().IDs() {
		c, _ := w.AI().Get(id)
		assert.Equal(t, 5.0, c.Config().EngagementRange)
	}
}

func TestSnapshotListsControllers(t *testing.T) {
	w := newTestWorld(t, Deps{})
	states := w.Snapshot()
	require.Len(t, states, 2)
	assert.Equal(t, "bot", states[0].Name)
	assert.Equal(t, "drone", states[1].Name)
	for _, s := range states {
		assert.NotEqual(t, ecs.EntityID(0), s.Entity)
	}
}

func navigationCell(x, z int) navigation.Cell { return navigation.Cell{X: x, Z: z} }
