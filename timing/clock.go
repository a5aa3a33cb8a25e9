// Package timing provides the elapsed-time sources that drive a simulation.
package timing

import (
	"sync"
	"time"

	"github.com/sarchlab/procsched/sim"
)

// A Clock is a start/pause/resume-able elapsed time source. Elapsed is
// monotonic while the clock runs and frozen while it is paused.
type Clock interface {
	sim.TimeTeller

	// Start begins or resumes the accrual of elapsed time.
	Start()

	// Pause freezes the elapsed time.
	Pause()

	// IsPaused tells if the clock is currently frozen.
	IsPaused() bool

	// Elapsed returns the time accrued while the clock was running.
	Elapsed() sim.VTimeInSec
}

// WallClock is a Clock backed by real time.
type WallClock struct {
	lock      sync.Mutex
	now       func() time.Time
	speed     float64
	running   bool
	startedAt time.Time
	accrued   time.Duration
	highWater sim.VTimeInSec
}

// NewWallClock creates a paused WallClock that reads time.Now.
func NewWallClock() *WallClock {
	return NewWallClockWithSource(time.Now)
}

// NewWallClockWithSource creates a paused WallClock that reads the given
// time source.
func NewWallClockWithSource(now func() time.Time) *WallClock {
	return &WallClock{
		now:   now,
		speed: 1,
	}
}

// WithSpeed makes one real second count as speed simulated seconds.
func (c *WallClock) WithSpeed(speed float64) *WallClock {
	if speed <= 0 {
		panic("clock speed must be positive")
	}

	c.speed = speed

	return c
}

// Start begins or resumes the accrual. Starting a running clock does nothing.
func (c *WallClock) Start() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.running {
		return
	}

	c.running = true
	c.startedAt = c.now()
}

// Pause freezes the clock. Pausing a paused clock does nothing.
func (c *WallClock) Pause() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.running {
		return
	}

	c.accrued += c.sinceStart()
	c.running = false
}

// IsPaused tells if the clock is frozen.
func (c *WallClock) IsPaused() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return !c.running
}

// Elapsed returns the accrued time in simulated seconds.
func (c *WallClock) Elapsed() sim.VTimeInSec {
	c.lock.Lock()
	defer c.lock.Unlock()

	total := c.accrued
	if c.running {
		total += c.sinceStart()
	}

	elapsed := sim.VTimeInSec(total.Seconds() * c.speed)
	if elapsed < c.highWater {
		return c.highWater
	}

	c.highWater = elapsed

	return elapsed
}

// CurrentTime is the same as Elapsed.
func (c *WallClock) CurrentTime() sim.VTimeInSec {
	return c.Elapsed()
}

func (c *WallClock) sinceStart() time.Duration {
	d := c.now().Sub(c.startedAt)
	if d < 0 {
		return 0
	}

	return d
}
