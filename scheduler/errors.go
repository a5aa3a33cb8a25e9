package scheduler

import "errors"

// Errors reported by the engine and its builder.
var (
	ErrNoRunningProcess      = errors.New("no process is running")
	ErrNegativeDelta         = errors.New("tick delta must not be negative")
	ErrNotEngineCommand      = errors.New("command is not handled by the engine")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrInvalidWindow         = errors.New("admission window must be positive")
	ErrInvalidBlockedTimeout = errors.New("blocked timeout must be positive")
	ErrNoClock               = errors.New("engine requires a clock")
	ErrNoGenerator           = errors.New("engine requires a process generator")
)
