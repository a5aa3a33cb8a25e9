// Package simulation wires an engine, a clock and the optional recording and
// monitoring services into one runnable simulation.
package simulation

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/sarchlab/procsched/datarecording"
	"github.com/sarchlab/procsched/monitoring"
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/timing"
	"github.com/sarchlab/procsched/tracing"
)

// RunsTableName is the table that holds one row per recorded run.
const RunsTableName = "runs"

// RunEntry is the row format of the runs table.
type RunEntry struct {
	RunID          string
	Window         int
	BlockedTimeout float64
	Processes      int
}

// A Simulation owns the services of one run.
type Simulation struct {
	id     string
	logger *slog.Logger

	engine *scheduler.Engine
	clock  timing.Clock
	runner *Runner

	dataRecorder  datarecording.DataRecorder
	execRecorder  *datarecording.ExecRecorder
	visTracer     *tracing.DBTracer
	busyTracer    *tracing.BusyTimeTracer
	readyTracer   *tracing.AverageTimeTracer
	blockedTracer *tracing.TotalTimeTracer
	stateCounter  *tracing.CountTracer

	monitor    *monitoring.Monitor
	monitorURL string
}

// ID returns the run ID.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the engine used in the simulation.
func (s *Simulation) Engine() *scheduler.Engine {
	return s.engine
}

// Runner returns the loop that drives the engine.
func (s *Simulation) Runner() *Runner {
	return s.runner
}

// Clock returns the clock of the simulation.
func (s *Simulation) Clock() timing.Clock {
	return s.clock
}

// GetDataRecorder returns the data recorder, or nil if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterPresenter adds a presenter to the runner.
func (s *Simulation) RegisterPresenter(p Presenter) {
	s.runner.RegisterPresenter(p)
}

// Submit queues a command for the runner.
func (s *Simulation) Submit(cmd scheduler.Command) bool {
	return s.runner.Submit(cmd)
}

// Run runs the simulation to completion or until ctx is done, then closes
// the open trace intervals and writes the run summary.
func (s *Simulation) Run(ctx context.Context) error {
	err := s.runner.Run(ctx)

	s.finish()

	return err
}

func (s *Simulation) finish() {
	now := s.clock.Elapsed()

	s.busyTracer.TerminateAllTasks(now)
	s.blockedTracer.TerminateAllTasks(now)

	if s.visTracer != nil {
		s.visTracer.TerminateAllTasks(now)
	}

	if s.execRecorder != nil {
		stats := s.engine.Snapshot().Stats()
		s.execRecorder.Set("Elapsed", now.String())
		s.execRecorder.Set("Finished", strconv.Itoa(stats.Finished))
		s.execRecorder.Set("Interrupts", strconv.FormatUint(s.Interrupts(), 10))
		s.execRecorder.Set("Total Blocked Time", s.TotalBlockedTime().String())
		s.execRecorder.Set("CPU Utilization",
			strconv.FormatFloat(s.CPUUtilization(), 'f', 4, 64))
		s.execRecorder.End()
	}

	s.logger.Info("simulation finished",
		"id", s.id, "elapsed", now, "cpu", s.CPUUtilization())
}

// CPUUtilization returns the share of elapsed time a process was running.
func (s *Simulation) CPUUtilization() float64 {
	elapsed := s.clock.Elapsed()
	if elapsed == 0 {
		return 0
	}

	return float64(s.busyTracer.BusyTime() / elapsed)
}

// AverageReadyTime returns the average length of a stay in ready.
func (s *Simulation) AverageReadyTime() sim.VTimeInSec {
	return s.readyTracer.AverageTime()
}

// TotalBlockedTime returns the time all processes spent blocked, summed.
func (s *Simulation) TotalBlockedTime() sim.VTimeInSec {
	return s.blockedTracer.TotalTime()
}

// Interrupts returns how many times a process entered blocked.
func (s *Simulation) Interrupts() uint64 {
	return s.stateCounter.Count(process.StateBlocked.String())
}

// Terminate stops the monitor and closes the recorder.
func (s *Simulation) Terminate() {
	if s.monitor != nil {
		err := s.monitor.Close()
		if err != nil {
			s.logger.Warn("closing monitor", "error", err)
		}
	}

	if s.dataRecorder != nil {
		err := s.dataRecorder.Close()
		if err != nil {
			s.logger.Warn("closing recorder", "error", err)
		}
	}
}
