// Package cmd provides the command-line interface of procsched.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/procsched/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	flagConfig    string
	flagEnvFile   string
	flagLogLevel  string
	flagLogFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "procsched",
	Short: "procsched simulates the scheduling of processes on one CPU.",
	Long: `procsched generates processes, admits them in bounded batches and ` +
		`serves them one at a time. Running processes can be interrupted ` +
		`or failed from the keyboard or from the web monitor.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env",
		"file of PROCSCHED_* variables loaded into the environment")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "",
		"log format (text, json)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It runs the exit handlers before the process ends.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig merges, in increasing precedence, the defaults, the YAML file,
// the .env file, the environment and the command-line flags.
func loadConfig(cmd *cobra.Command, applyFlags func(c *config.Config)) (
	config.Config,
	error,
) {
	c := config.Default()

	if flagConfig != "" {
		err := c.LoadFile(flagConfig)
		if err != nil {
			return c, err
		}
	}

	err := config.LoadDotEnv(flagEnvFile)
	if err != nil {
		return c, err
	}

	err = c.ApplyEnv()
	if err != nil {
		return c, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Log.Level = flagLogLevel
	}

	if flags.Changed("log-format") {
		c.Log.Format = flagLogFormat
	}

	if applyFlags != nil {
		applyFlags(&c)
	}

	err = c.Validate()
	if err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

func newLogger(c config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := c.Log.NewLogger(w)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	return logger, nil
}
