// Package scheduler implements the scheduling engine that owns the process
// lifecycle, the admission window and the blocked timeout policy.
package scheduler

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/timing"
	"github.com/sarchlab/procsched/tracing"
)

const noProcess = -1

// TaskKindState is the tracing kind of the state intervals the engine emits.
const TaskKindState = "state"

// Engine owns the pending, ready, blocked and finished collections and the
// single running slot. All methods must be called from one goroutine.
type Engine struct {
	sim.HookableBase

	name           string
	clock          timing.Clock
	generator      process.Generator
	logger         *slog.Logger
	taskIDs        sim.IDGenerator
	window         int
	blockedTimeout sim.VTimeInSec

	procs     []process.Process
	intervals []string

	pending  []int
	ready    []int
	blocked  []int
	running  int
	finished []int
	inFlight int
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// CurrentTime returns the elapsed time of the engine clock.
func (e *Engine) CurrentTime() sim.VTimeInSec {
	return e.clock.Elapsed()
}

// AdmissionWindow returns the ceiling of in-flight processes.
func (e *Engine) AdmissionWindow() int {
	return e.window
}

// BlockedTimeout returns the blocked time after which a process is ready
// again.
func (e *Engine) BlockedTimeout() sim.VTimeInSec {
	return e.blockedTimeout
}

// Total returns the number of processes ever generated.
func (e *Engine) Total() int {
	return len(e.procs)
}

// InFlight returns the number of processes that left pending but have not
// finished.
func (e *Engine) InFlight() int {
	return e.inFlight
}

// IsRunning tells if a process occupies the running slot.
func (e *Engine) IsRunning() bool {
	return e.running != noProcess
}

// Generate appends n new processes to pending.
func (e *Engine) Generate(n int) {
	if n < 0 {
		log.Panicf("cannot generate %d processes", n)
	}

	for i := 0; i < n; i++ {
		id := len(e.procs)

		// Only the estimate and operation are taken from the generator. The
		// timing fields always start unset.
		g := e.generator.Generate(id)
		p := process.New(id, g.EstimatedTime, g.Operation)

		e.procs = append(e.procs, p)
		e.intervals = append(e.intervals, "")
		e.pending = append(e.pending, id)
	}

	e.logger.Debug("processes generated", "count", n, "total", len(e.procs))
}

// Start fills the whole admission window. It is the single admission call
// made when a simulation begins.
func (e *Engine) Start() int {
	return e.Admit(e.window)
}

// Admit moves up to n processes from the front of pending to the back of
// ready. Processes that do not fit into the admission window stay pending.
// It returns the number of processes admitted.
func (e *Engine) Admit(n int) int {
	free := e.window - e.inFlight
	if n > free {
		n = free
	}

	if n > len(e.pending) {
		n = len(e.pending)
	}

	if n <= 0 {
		return 0
	}

	now := e.clock.Elapsed()

	admitted := e.pending[:n]
	e.pending = e.pending[n:]

	for _, idx := range admitted {
		p := &e.procs[idx]
		p.Arrive(now)

		e.ready = append(e.ready, idx)
		e.inFlight++
		e.enterState(idx, process.StateReady)

		e.logger.Debug("process admitted", "id", p.ID, "time", now)
		e.invoke(HookPosAdmit, idx)
	}

	return n
}

// Serve moves the front of ready into the running slot if the slot is empty.
// It returns whether a process began running.
func (e *Engine) Serve() bool {
	if e.running != noProcess || len(e.ready) == 0 {
		return false
	}

	idx := e.ready[0]
	e.ready = e.ready[1:]

	p := &e.procs[idx]
	p.Arrive(e.clock.Elapsed())

	e.running = idx
	e.enterState(idx, process.StateRunning)

	e.logger.Debug("process served", "id", p.ID,
		"service", p.ServiceTime, "estimated", p.EstimatedTime)
	e.invoke(HookPosServe, idx)

	return true
}

// Tick advances the simulated time by delta. The running process accrues
// service time and terminates successfully once its estimate is met. Every
// blocked process accrues blocked time, and those that reach the blocked
// timeout return to the back of ready. Tick does not serve a new process.
func (e *Engine) Tick(delta sim.VTimeInSec) error {
	if delta < 0 {
		return fmt.Errorf("tick by %v: %w", delta, ErrNegativeDelta)
	}

	if e.running != noProcess {
		if e.procs[e.running].Serve(delta) {
			e.terminate(process.StatusSuccess)
		}
	}

	e.updateBlocked(delta)

	return nil
}

func (e *Engine) updateBlocked(delta sim.VTimeInSec) {
	stillBlocked := e.blocked[:0]

	for _, idx := range e.blocked {
		p := &e.procs[idx]
		if !p.Wait(delta, e.blockedTimeout) {
			stillBlocked = append(stillBlocked, idx)
			continue
		}

		e.ready = append(e.ready, idx)
		e.enterState(idx, process.StateReady)

		e.logger.Debug("process unblocked", "id", p.ID,
			"blocked", p.BlockedTime)
		e.invoke(HookPosUnblock, idx)
	}

	e.blocked = stillBlocked
}

// Interrupt moves the running process into blocked with its blocked time
// reset. State is unchanged and ErrNoRunningProcess is returned if nothing
// runs.
func (e *Engine) Interrupt() error {
	if e.running == noProcess {
		return fmt.Errorf("interrupt: %w", ErrNoRunningProcess)
	}

	idx := e.running
	e.running = noProcess

	p := &e.procs[idx]
	p.Block()

	e.blocked = append(e.blocked, idx)
	e.enterState(idx, process.StateBlocked)

	e.logger.Debug("process interrupted", "id", p.ID,
		"service", p.ServiceTime)
	e.invoke(HookPosBlock, idx)

	return nil
}

// Fail terminates the running process with a failure, whatever its progress.
func (e *Engine) Fail() error {
	if e.running == noProcess {
		return fmt.Errorf("fail: %w", ErrNoRunningProcess)
	}

	e.terminate(process.StatusFailure)

	return nil
}

// Apply executes an engine command. CommandNone does nothing. Pausing and
// resuming are handled by the loop driving the engine and are rejected here.
func (e *Engine) Apply(cmd Command) error {
	switch cmd {
	case CommandNone:
		return nil
	case CommandInterrupt:
		return e.Interrupt()
	case CommandFail:
		return e.Fail()
	case CommandTogglePause, CommandResume:
		return fmt.Errorf("%s: %w", cmd, ErrNotEngineCommand)
	default:
		return fmt.Errorf("%s: %w", cmd, ErrUnknownCommand)
	}
}

// IsComplete tells if every generated process has finished.
func (e *Engine) IsComplete() bool {
	return len(e.finished) == len(e.procs)
}

func (e *Engine) terminate(status process.Status) {
	idx := e.running
	e.running = noProcess

	p := &e.procs[idx]
	p.Finish(e.clock.Elapsed(), status)

	e.finished = append(e.finished, idx)
	e.inFlight--
	e.enterState(idx, process.StateFinished)

	e.logger.Debug("process terminated", "id", p.ID,
		"status", status, "turnaround", p.TurnaroundTime,
		"waiting", p.WaitingTime)
	e.invoke(HookPosTerminate, idx)

	e.Admit(1)
}

// enterState closes the trace interval of the previous state and opens one
// for the new state. Finished has no interval.
func (e *Engine) enterState(idx int, state process.State) {
	e.procs[idx].State = state

	if e.intervals[idx] != "" {
		tracing.EndTask(e.intervals[idx], e)
		e.intervals[idx] = ""
	}

	if state == process.StateFinished || e.NumHooks() == 0 {
		return
	}

	id := e.taskIDs.Generate()
	e.intervals[idx] = id
	tracing.StartTask(id, ProcessTaskID(idx), e, TaskKindState,
		state.String(), nil)
}

func (e *Engine) invoke(pos *sim.HookPos, idx int) {
	if e.NumHooks() == 0 {
		return
	}

	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    pos,
		Item:   e.procs[idx],
	})
}

// ProcessTaskID is the tracing parent ID of all intervals of a process.
func ProcessTaskID(id int) string {
	return fmt.Sprintf("proc-%d", id)
}
