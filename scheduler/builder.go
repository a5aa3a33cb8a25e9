package scheduler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/timing"
)

// Default policy values.
const (
	DefaultAdmissionWindow = 4
	DefaultBlockedTimeout  = sim.VTimeInSec(8)
)

// Builder can build scheduling engines.
type Builder struct {
	name           string
	clock          timing.Clock
	generator      process.Generator
	logger         *slog.Logger
	taskIDs        sim.IDGenerator
	window         int
	blockedTimeout sim.VTimeInSec
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		name:           "Scheduler",
		window:         DefaultAdmissionWindow,
		blockedTimeout: DefaultBlockedTimeout,
	}
}

// WithName sets the name of the engine, used as the trace location.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithClock sets the clock the engine stamps times with.
func (b Builder) WithClock(clock timing.Clock) Builder {
	b.clock = clock
	return b
}

// WithGenerator sets the policy that creates processes.
func (b Builder) WithGenerator(g process.Generator) Builder {
	b.generator = g
	return b
}

// WithAdmissionWindow sets the maximum number of in-flight processes.
func (b Builder) WithAdmissionWindow(n int) Builder {
	b.window = n
	return b
}

// WithBlockedTimeout sets how long an interrupted process stays blocked.
func (b Builder) WithBlockedTimeout(t sim.VTimeInSec) Builder {
	b.blockedTimeout = t
	return b
}

// WithLogger sets the logger. Without one the engine does not log.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithTaskIDGenerator sets the generator of trace interval IDs.
func (b Builder) WithTaskIDGenerator(g sim.IDGenerator) Builder {
	b.taskIDs = g
	return b
}

func (b Builder) parametersMustBeValid() error {
	if b.window <= 0 {
		return fmt.Errorf("window %d: %w", b.window, ErrInvalidWindow)
	}

	if b.blockedTimeout <= 0 {
		return fmt.Errorf("timeout %v: %w",
			b.blockedTimeout, ErrInvalidBlockedTimeout)
	}

	if b.clock == nil {
		return ErrNoClock
	}

	if b.generator == nil {
		return ErrNoGenerator
	}

	return nil
}

// Build creates an engine with no processes.
func (b Builder) Build() (*Engine, error) {
	err := b.parametersMustBeValid()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		name:           b.name,
		clock:          b.clock,
		generator:      b.generator,
		logger:         b.logger,
		taskIDs:        b.taskIDs,
		window:         b.window,
		blockedTimeout: b.blockedTimeout,
		running:        noProcess,
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if e.taskIDs == nil {
		e.taskIDs = sim.NewSequentialIDGenerator("task-")
	}

	return e, nil
}
