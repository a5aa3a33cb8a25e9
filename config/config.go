// Package config collects the run parameters from defaults, a YAML file, a
// .env file and PROCSCHED_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PROCSCHED_"

// Errors reported by Validate.
var (
	ErrInvalidWindow         = errors.New("window must be positive")
	ErrInvalidBlockedTimeout = errors.New("blocked timeout must be positive")
	ErrNegativeProcesses     = errors.New("process count must not be negative")
	ErrInvalidEstimateRange  = errors.New("invalid estimate range")
	ErrInvalidTickInterval   = errors.New("tick interval must be positive")
	ErrInvalidSpeed          = errors.New("speed must be positive")
)

// MonitorConfig configures the HTTP monitor.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled" env:"MONITOR"`
	Port        int  `yaml:"port" env:"MONITOR_PORT"`
	OpenBrowser bool `yaml:"open_browser" env:"OPEN_BROWSER"`
}

// RecordConfig configures the SQLite recorder.
type RecordConfig struct {
	Enabled bool   `yaml:"enabled" env:"RECORD"`
	Path    string `yaml:"path" env:"RECORD_PATH"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Config holds every parameter of a run.
type Config struct {
	Window         int           `yaml:"window" env:"WINDOW"`
	BlockedTimeout float64       `yaml:"blocked_timeout" env:"BLOCKED_TIMEOUT"`
	Processes      int           `yaml:"processes" env:"PROCESSES"`
	MinEstimate    int           `yaml:"min_estimate" env:"MIN_ESTIMATE"`
	MaxEstimate    int           `yaml:"max_estimate" env:"MAX_ESTIMATE"`
	Seed           uint64        `yaml:"seed" env:"SEED"`
	TickInterval   time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	Speed          float64       `yaml:"speed" env:"SPEED"`

	Monitor MonitorConfig `yaml:"monitor"`
	Record  RecordConfig  `yaml:"record"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Window:         4,
		BlockedTimeout: 8,
		Processes:      10,
		MinEstimate:    6,
		MaxEstimate:    16,
		TickInterval:   100 * time.Millisecond,
		Speed:          1,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the file
// keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv loads the .env files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		_, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		err = godotenv.Load(p)
		if err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}

	return nil
}

// Validate checks the parameters.
func (c Config) Validate() error {
	switch {
	case c.Window <= 0:
		return fmt.Errorf("%d: %w", c.Window, ErrInvalidWindow)
	case c.BlockedTimeout <= 0:
		return fmt.Errorf("%v: %w", c.BlockedTimeout, ErrInvalidBlockedTimeout)
	case c.Processes < 0:
		return fmt.Errorf("%d: %w", c.Processes, ErrNegativeProcesses)
	case c.MinEstimate <= 0 || c.MaxEstimate < c.MinEstimate:
		return fmt.Errorf("[%d, %d]: %w",
			c.MinEstimate, c.MaxEstimate, ErrInvalidEstimateRange)
	case c.TickInterval <= 0:
		return fmt.Errorf("%v: %w", c.TickInterval, ErrInvalidTickInterval)
	case c.Speed <= 0:
		return fmt.Errorf("%v: %w", c.Speed, ErrInvalidSpeed)
	}

	return nil
}
