package timing

import (
	"sync"

	"github.com/sarchlab/procsched/sim"
)

// ManualClock is a Clock that only moves when Advance is called. It makes
// simulations deterministic in tests and in replay runs.
type ManualClock struct {
	lock    sync.Mutex
	running bool
	elapsed sim.VTimeInSec
}

// NewManualClock creates a paused ManualClock at time 0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Start resumes the accrual.
func (c *ManualClock) Start() {
	c.lock.Lock()
	c.running = true
	c.lock.Unlock()
}

// Pause freezes the clock.
func (c *ManualClock) Pause() {
	c.lock.Lock()
	c.running = false
	c.lock.Unlock()
}

// IsPaused tells if the clock is frozen.
func (c *ManualClock) IsPaused() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return !c.running
}

// Advance moves the clock forward by d if it is running. It returns whether
// the time moved.
func (c *ManualClock) Advance(d sim.VTimeInSec) bool {
	if d < 0 {
		panic("cannot advance a clock backwards")
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.running {
		return false
	}

	c.elapsed += d

	return true
}

// Elapsed returns the accrued time.
func (c *ManualClock) Elapsed() sim.VTimeInSec {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.elapsed
}

// CurrentTime is the same as Elapsed.
func (c *ManualClock) CurrentTime() sim.VTimeInSec {
	return c.Elapsed()
}
