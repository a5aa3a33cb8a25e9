package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the logger described by c.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(c.Level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}

	ops := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, ops)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, ops)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}
