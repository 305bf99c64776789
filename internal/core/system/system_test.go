package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerOrdersByPhase(t *testing.T) {
	r := NewRunner()
	var order []string
	add := func(p Phase, name string) {
		r.Register(Func{P: p, Fn: func(time.Duration) { order = append(order, name) }})
	}
	add(PhaseOutput, "output")
	add(PhaseAI, "ai-1")
	add(PhasePhysics, "physics")
	add(PhaseAI, "ai-2")
	add(PhaseInput, "input")

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input", "ai-1", "ai-2", "physics", "output"}, order)
	assert.Equal(t, uint64(1), r.Ticks())

	order = nil
	r.TickPhase(PhaseAI, time.Millisecond)
	assert.Equal(t, []string{"ai-1", "ai-2"}, order)
	assert.Equal(t, uint64(1), r.Ticks())
}

func TestLoopStopsAtMaxTicks(t *testing.T) {
	r := NewRunner()
	clock := NewSimClock()
	var seen []time.Duration
	r.Register(Func{P: PhaseAI, Fn: func(time.Duration) { seen = append(seen, clock.Now()) }})

	var after []uint64
	err := Loop(context.Background(), r, clock, LoopOptions{
		TickRate:  50,
		MaxTicks:  3,
		AfterTick: func(tick uint64, _ time.Duration) { after = append(after, tick) },
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 40 * time.Millisecond, 60 * time.Millisecond}, seen)
	assert.Equal(t, []uint64{1, 2, 3}, after)
}

func TestLoopHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner()
	clock := NewSimClock()
	r.Register(Func{P: PhaseAI, Fn: func(time.Duration) {
		if clock.Now() >= 100*time.Millisecond {
			cancel()
		}
	}})

	err := Loop(ctx, r, clock, LoopOptions{TickRate: 100, Realtime: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 100*time.Millisecond, clock.Now())

	assert.ErrorIs(t, Loop(context.Background(), r, clock, LoopOptions{}), ErrInvalidTickRate)
}

func TestClocks(t *testing.T) {
	c := NewSimClock()
	assert.Zero(t, c.Now())
	assert.Equal(t, time.Second, c.Advance(time.Second))
	c.Advance(-time.Hour)
	assert.Equal(t, time.Second, c.Now())

	m := &ManualClock{}
	m.Set(5 * time.Second)
	m.Advance(time.Millisecond)
	assert.Equal(t, 5*time.Second+time.Millisecond, m.Now())
}
