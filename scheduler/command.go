package scheduler

import (
	"fmt"
	"strings"
)

// A Command is an abstract user intent, independent of the input device.
type Command int

// The commands.
const (
	CommandNone Command = iota
	CommandInterrupt
	CommandFail
	CommandTogglePause
	CommandResume
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandInterrupt:
		return "interrupt"
	case CommandFail:
		return "fail"
	case CommandTogglePause:
		return "pause"
	case CommandResume:
		return "continue"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ParseCommand converts a command name into a Command.
func ParseCommand(name string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interrupt":
		return CommandInterrupt, nil
	case "fail", "error":
		return CommandFail, nil
	case "pause", "toggle-pause":
		return CommandTogglePause, nil
	case "continue", "resume":
		return CommandResume, nil
	case "", "none":
		return CommandNone, nil
	default:
		return CommandNone, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
}
