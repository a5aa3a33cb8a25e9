package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarchlab/procsched/config"
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
	"github.com/sarchlab/procsched/simulation"
	"github.com/sarchlab/procsched/timing"
	"github.com/sarchlab/procsched/view"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation interactively.",
	Long: "Run generates the processes and simulates them in real time. " +
		"Type a key followed by Enter to send a command.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd, func(c *config.Config) {
			applyRunFlags(cmd.Flags(), c)
		})
		if err != nil {
			return err
		}

		return runSimulation(cmd, c)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := config.Default()
	f := runCmd.Flags()
	f.Int("window", d.Window, "maximum number of admitted processes")
	f.Float64("timeout", d.BlockedTimeout, "seconds a process stays blocked")
	f.Int("processes", d.Processes, "number of processes to generate")
	f.Int("min-estimate", d.MinEstimate, "shortest estimated time in seconds")
	f.Int("max-estimate", d.MaxEstimate, "longest estimated time in seconds")
	f.Uint64("seed", d.Seed, "random seed, 0 picks one from the time")
	f.Duration("tick", d.TickInterval, "interval between two iterations")
	f.Float64("speed", d.Speed, "simulated seconds per real second")
	f.Bool("monitor", d.Monitor.Enabled, "serve the web monitor")
	f.Int("port", d.Monitor.Port, "port of the web monitor")
	f.Bool("open-browser", d.Monitor.OpenBrowser, "open the web monitor")
	f.Bool("record", d.Record.Enabled, "record the run into a SQLite file")
	f.String("output", d.Record.Path, "record file name, without extension")
}

// applyRunFlags overrides c with the flags given on the command line.
func applyRunFlags(f *pflag.FlagSet, c *config.Config) {
	if f.Changed("window") {
		c.Window, _ = f.GetInt("window")
	}

	if f.Changed("timeout") {
		c.BlockedTimeout, _ = f.GetFloat64("timeout")
	}

	if f.Changed("processes") {
		c.Processes, _ = f.GetInt("processes")
	}

	if f.Changed("min-estimate") {
		c.MinEstimate, _ = f.GetInt("min-estimate")
	}

	if f.Changed("max-estimate") {
		c.MaxEstimate, _ = f.GetInt("max-estimate")
	}

	if f.Changed("seed") {
		c.Seed, _ = f.GetUint64("seed")
	}

	if f.Changed("tick") {
		c.TickInterval, _ = f.GetDuration("tick")
	}

	if f.Changed("speed") {
		c.Speed, _ = f.GetFloat64("speed")
	}

	if f.Changed("monitor") {
		c.Monitor.Enabled, _ = f.GetBool("monitor")
	}

	if f.Changed("port") {
		c.Monitor.Port, _ = f.GetInt("port")
	}

	if f.Changed("open-browser") {
		c.Monitor.OpenBrowser, _ = f.GetBool("open-browser")
	}

	if f.Changed("record") {
		c.Record.Enabled, _ = f.GetBool("record")
	}

	if f.Changed("output") {
		c.Record.Path, _ = f.GetString("output")
	}
}

func buildSimulation(
	c config.Config,
	logger *slog.Logger,
) (*simulation.Simulation, error) {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	gen, err := process.NewRandomGenerator(seed, c.MinEstimate, c.MaxEstimate)
	if err != nil {
		return nil, err
	}

	logger.Info("building simulation", "seed", seed, "window", c.Window,
		"timeout", c.BlockedTimeout, "processes", c.Processes)

	b := simulation.MakeBuilder().
		WithClock(timing.NewWallClock().WithSpeed(c.Speed)).
		WithGenerator(gen).
		WithAdmissionWindow(c.Window).
		WithBlockedTimeout(sim.VTimeInSec(c.BlockedTimeout)).
		WithProcessCount(c.Processes).
		WithTickInterval(c.TickInterval).
		WithHelp(view.DefaultKeyMap().Help()).
		WithLogger(logger)

	if c.Monitor.Enabled {
		b = b.WithMonitorPort(c.Monitor.Port)
		if c.Monitor.OpenBrowser {
			b = b.WithOpenBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if c.Record.Enabled {
		b = b.WithOutputFileName(c.Record.Path)
	} else {
		b = b.WithoutRecording()
	}

	return b.Build()
}

func runSimulation(cmd *cobra.Command, c config.Config) error {
	logger, err := newLogger(c, os.Stderr)
	if err != nil {
		return err
	}

	s, err := buildSimulation(c, logger)
	if err != nil {
		return err
	}
	defer s.Terminate()

	s.RegisterPresenter(
		view.NewTextPresenter(cmd.OutOrStdout()).WithClearScreen())

	ctx, stop := signal.NotifyContext(cmd.Context(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		input := view.NewInputReader(cmd.InOrStdin(), view.DefaultKeyMap()).
			WithLogger(logger)

		err := input.Run(ctx, s)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("reading input", "error", err)
		}
	}()

	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
