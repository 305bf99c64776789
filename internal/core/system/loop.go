package system

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidTickRate = errors.New("system: tick rate must be positive")

// LoopOptions configures Loop.
type LoopOptions struct {
	// TickRate is the number of ticks per second of simulation time.
	TickRate int
	// MaxTicks stops the loop after that many ticks; zero runs until ctx ends.
	MaxTicks uint64
	// Realtime paces ticks with a wall-clock ticker. When false the loop runs
	// as fast as possible, which is what headless batch runs and tests want.
	Realtime bool
	// AfterTick is called after every tick with the tick number and the wall
	// time it took.
	AfterTick func(tick uint64, took time.Duration)
}

// Loop advances clock by a fixed step and ticks runner until ctx is done or
// MaxTicks is reached. It returns nil when MaxTicks ends the run and the
// context error otherwise.
func Loop(ctx context.Context, runner *Runner, clock *SimClock, opts LoopOptions) error {
	if opts.TickRate <= 0 {
		return ErrInvalidTickRate
	}
	step := time.Second / time.Duration(opts.TickRate)

	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(step)
		defer ticker.Stop()
	}

	for tick := uint64(1); opts.MaxTicks == 0 || tick <= opts.MaxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		start := time.Now()
		clock.Advance(step)
		runner.Tick(step)
		if opts.AfterTick != nil {
			opts.AfterTick(tick, time.Since(start))
		}
	}
	return nil
}
