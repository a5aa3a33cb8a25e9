package view

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sarchlab/procsched/scheduler"
	"github.com/sarchlab/procsched/simulation"
)

// InputReader reads keys from a line-buffered input. Every word typed on a
// line is one key.
type InputReader struct {
	in     io.Reader
	keys   KeyMap
	logger *slog.Logger
}

// NewInputReader creates a reader over in.
func NewInputReader(in io.Reader, keys KeyMap) *InputReader {
	return &InputReader{
		in:     in,
		keys:   keys,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger.
func (r *InputReader) WithLogger(logger *slog.Logger) *InputReader {
	r.logger = logger
	return r
}

// Run submits the commands until the input ends or ctx is done. Unbound
// keys are ignored.
func (r *InputReader) Run(ctx context.Context, sink simulation.Commander) error {
	scanner := bufio.NewScanner(r.in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		for _, key := range strings.Fields(scanner.Text()) {
			cmd := r.keys.Lookup(key)
			if cmd == scheduler.CommandNone {
				r.logger.Debug("unbound key", "key", key)
				continue
			}

			sink.Submit(cmd)
		}
	}

	return scanner.Err()
}
