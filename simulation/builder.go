package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/procsched/datarecording"
	"github.com/sarchlab/procsched/monitoring"
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/timing"
	"github.com/sarchlab/procsched/tracing"
)

// ErrMonitorPortWithoutMonitor is returned when a monitor port is given while
// monitoring is disabled.
var ErrMonitorPortWithoutMonitor = errors.New(
	"monitor port cannot be set when monitoring is disabled")

// ErrNegativeProcessCount is returned when the number of processes to
// generate is negative.
var ErrNegativeProcessCount = errors.New("process count must not be negative")

// Builder can be used to build a simulation.
type Builder struct {
	clock          timing.Clock
	generator      process.Generator
	window         int
	blockedTimeout sim.VTimeInSec
	processes      int
	interval       time.Duration
	queueSize      int
	help           string
	logger         *slog.Logger

	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordOn       bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		window:         scheduler.DefaultAdmissionWindow,
		blockedTimeout: scheduler.DefaultBlockedTimeout,
		interval:       DefaultTickInterval,
		queueSize:      16,
		monitorOn:      true,
		recordOn:       true,
	}
}

// WithClock sets the clock. A wall clock is used by default.
func (b Builder) WithClock(c timing.Clock) Builder {
	b.clock = c
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

// WithProcessCount sets how many processes are generated before the run.
func (b Builder) WithProcessCount(n int) Builder {
	b.processes = n
	return b
}

// WithTickInterval sets how often the runner iterates.
func (b Builder) WithTickInterval(d time.Duration) Builder {
	b.interval = d
	return b
}

// WithCommandQueueSize sets how many commands can wait for the runner.
func (b Builder) WithCommandQueueSize(n int) Builder {
	b.queueSize = n
	return b
}

// WithHelp sets the message presented when the run starts.
func (b Builder) WithHelp(help string) Builder {
	b.help = help
	return b
}

// WithLogger sets the logger shared by the engine and the runner.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOpenBrowser opens the monitoring page once the server is up.
func (b Builder) WithOpenBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutRecording sets the simulation to not write a database.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() error {
	if !b.monitorOn && b.monitorPort != 0 {
		return ErrMonitorPortWithoutMonitor
	}

	if b.processes < 0 {
		return fmt.Errorf("%d: %w", b.processes, ErrNegativeProcessCount)
	}

	return nil
}

// Build builds the simulation. The processes are generated, but the clock is
// not started until Run.
func (b Builder) Build() (*Simulation, error) {
	err := b.parametersMustBeValid()
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Simulation{
		id:     xid.New().String(),
		clock:  b.clock,
		logger: logger,
	}

	if s.clock == nil {
		s.clock = timing.NewWallClock()
	}

	s.engine, err = scheduler.MakeBuilder().
		WithClock(s.clock).
		WithGenerator(b.generator).
		WithAdmissionWindow(b.window).
		WithBlockedTimeout(b.blockedTimeout).
		WithLogger(logger).
		WithTaskIDGenerator(sim.NewXIDGenerator()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	s.engine.Generate(b.processes)

	s.runner = NewRunner(s.engine, s.clock, b.queueSize).
		WithInterval(b.interval).
		WithHelp(b.help).
		WithLogger(logger)

	s.busyTracer = tracing.NewBusyTimeTracer(s.clock,
		tracing.FilterByWhat(process.StateRunning.String()))
	tracing.CollectTrace(s.engine, s.busyTracer)

	s.readyTracer = tracing.NewAverageTimeTracer(s.clock,
		tracing.FilterByWhat(process.StateReady.String()))
	tracing.CollectTrace(s.engine, s.readyTracer)

	s.blockedTracer = tracing.NewTotalTimeTracer(s.clock,
		tracing.FilterByWhat(process.StateBlocked.String()))
	tracing.CollectTrace(s.engine, s.blockedTracer)

	s.stateCounter = tracing.NewCountTracer(nil)
	tracing.CollectTrace(s.engine, s.stateCounter)

	if b.recordOn {
		b.buildRecording(s)
	}

	if b.monitorOn {
		err = b.buildMonitor(s)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildRecording(s *Simulation) {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "procsched_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)

	s.visTracer = tracing.NewDBTracer(s.clock, s.dataRecorder)
	tracing.CollectTrace(s.engine, s.visTracer)

	s.engine.AcceptHook(scheduler.NewRecorder(s.id, s.dataRecorder))

	s.dataRecorder.CreateTable(RunsTableName, RunEntry{})
	s.dataRecorder.InsertData(RunsTableName, RunEntry{
		RunID:          s.id,
		Window:         b.window,
		BlockedTimeout: float64(b.blockedTimeout),
		Processes:      b.processes,
	})

	s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
	s.execRecorder.Start()
	s.execRecorder.Set("Run ID", s.id)
	s.execRecorder.Set("Admission Window", strconv.Itoa(b.window))
	s.execRecorder.Set("Blocked Timeout", b.blockedTimeout.String())
	s.execRecorder.Set("Processes", strconv.Itoa(b.processes))
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterCommander(s.runner)
	s.monitor.CreateProgressBar("Processes", uint64(b.processes))
	s.runner.RegisterPresenter(s.monitor)

	url, err := s.monitor.StartServer()
	if err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}

	s.monitorURL = url

	if b.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			s.logger.Warn("cannot open browser", "url", url, "error", err)
		}
	}

	return nil
}
