package simulation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/timing"
)

// Messages sent to presenters when the pause state changes.
const (
	PausedMessage  = "paused"
	ResumedMessage = "resumed"
)

// DefaultTickInterval is how often the runner iterates.
const DefaultTickInterval = 100 * time.Millisecond

// A Runner drives an engine with time measured by a clock. It is the only
// goroutine that mutates the engine. Other goroutines talk to it through
// Submit.
type Runner struct {
	engine     *scheduler.Engine
	clock      timing.Clock
	commands   chan scheduler.Command
	presenters []Presenter
	interval   time.Duration
	help       string
	logger     *slog.Logger

	lastTick sim.VTimeInSec
	paused   bool
	started  bool
}

// NewRunner creates a runner. The command channel holds up to queueSize
// commands that have not been applied yet.
func NewRunner(
	engine *scheduler.Engine,
	clock timing.Clock,
	queueSize int,
) *Runner {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &Runner{
		engine:   engine,
		clock:    clock,
		commands: make(chan scheduler.Command, queueSize),
		interval: DefaultTickInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithInterval sets the pace of Run.
func (r *Runner) WithInterval(d time.Duration) *Runner {
	if d <= 0 {
		panic("tick interval must be positive")
	}

	r.interval = d

	return r
}

// WithHelp sets the message shown when the run starts.
func (r *Runner) WithHelp(help string) *Runner {
	r.help = help
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}

	return r
}

// RegisterPresenter adds a presenter that receives every snapshot.
func (r *Runner) RegisterPresenter(p Presenter) {
	r.presenters = append(r.presenters, p)
}

// Submit queues a command. It never blocks and drops the command if the queue
// is full.
func (r *Runner) Submit(cmd scheduler.Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		r.logger.Warn("command dropped", "command", cmd)
		return false
	}
}

// IsPaused tells if the runner is waiting for a pause toggle.
func (r *Runner) IsPaused() bool {
	return r.paused
}

// Start fills the admission window and starts the clock. Run calls it; tests
// that drive Iterate directly call it themselves.
func (r *Runner) Start() {
	if r.started {
		return
	}

	r.started = true
	r.engine.Start()
	r.clock.Start()
	r.lastTick = r.clock.Elapsed()

	if r.help != "" {
		r.message(r.help)
	}
}

// Iterate performs one step: apply at most one queued command, advance the
// engine by the clock time since the previous step, serve if the running slot
// is idle, and present the new snapshot. Iterate blocks while paused.
func (r *Runner) Iterate(ctx context.Context) error {
	select {
	case cmd := <-r.commands:
		err := r.handle(ctx, cmd)
		if err != nil {
			return err
		}
	default:
	}

	now := r.clock.Elapsed()
	delta := now - r.lastTick
	r.lastTick = now

	err := r.engine.Tick(delta)
	if err != nil {
		return err
	}

	if !r.engine.IsRunning() {
		r.engine.Serve()
	}

	r.present()

	return nil
}

func (r *Runner) handle(ctx context.Context, cmd scheduler.Command) error {
	switch cmd {
	case scheduler.CommandTogglePause:
		return r.pause(ctx)
	case scheduler.CommandResume:
		r.logger.Debug("not paused, resume ignored")
		return nil
	}

	err := r.engine.Apply(cmd)
	if err != nil {
		r.logger.Debug("command rejected", "command", cmd, "error", err)
		r.message(err.Error())
	}

	return nil
}

// pause freezes the clock and waits for the next pause toggle or resume.
// Other commands are dropped while paused.
func (r *Runner) pause(ctx context.Context) error {
	r.clock.Pause()
	r.paused = true

	r.present()
	r.message(PausedMessage)

	for r.paused {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.commands:
			if cmd != scheduler.CommandTogglePause &&
				cmd != scheduler.CommandResume {
				r.logger.Debug("command dropped while paused", "command", cmd)
				continue
			}

			r.paused = false
		}
	}

	r.clock.Start()
	r.message(ResumedMessage)

	return nil
}

// Run starts the simulation and iterates once per interval until every
// process finished or ctx is done. The clock is paused when Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.Start()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	err := r.loop(ctx, ticker.C)

	r.clock.Pause()

	s := r.snapshot()
	for _, p := range r.presenters {
		p.Done(s)
	}

	if errors.Is(err, context.Canceled) {
		r.logger.Info("simulation cancelled", "elapsed", s.Elapsed)
	}

	return err
}

func (r *Runner) loop(ctx context.Context, tick <-chan time.Time) error {
	for {
		err := r.Iterate(ctx)
		if err != nil {
			return err
		}

		if r.engine.IsComplete() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

func (r *Runner) snapshot() scheduler.Snapshot {
	s := r.engine.Snapshot()
	s.Paused = r.paused

	return s
}

func (r *Runner) present() {
	s := r.snapshot()
	for _, p := range r.presenters {
		p.Present(s)
	}
}

func (r *Runner) message(msg string) {
	for _, p := range r.presenters {
		p.Message(msg)
	}
}
