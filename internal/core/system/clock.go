package system

import (
	"sync/atomic"
	"time"
)

// Clock reports monotonic simulation time measured from the start of the run.
type Clock interface {
	Now() time.Duration
}

// SimClock advances only when the loop steps it. Now may be read from any
// goroutine.
type SimClock struct {
	now atomic.Int64
}

func NewSimClock() *SimClock {
	return &SimClock{}
}

func (c *SimClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

// Advance moves time forward by dt; negative steps are ignored.
func (c *SimClock) Advance(dt time.Duration) time.Duration {
	if dt < 0 {
		dt = 0
	}
	return time.Duration(c.now.Add(int64(dt)))
}

// ManualClock is a settable clock for tests.
type ManualClock struct {
	T time.Duration
}

func (c *ManualClock) Now() time.Duration { return c.T }

func (c *ManualClock) Set(t time.Duration) { c.T = t }

func (c *ManualClock) Advance(dt time.Duration) { c.T += dt }
