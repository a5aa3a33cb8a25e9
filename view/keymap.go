// Package view renders snapshots on a terminal and turns typed keys into
// commands.
package view

import (
	"fmt"
	"strings"

	"github.com/sarchlab/procsched/scheduler"
)

// A Binding maps one key to a command.
type Binding struct {
	Key     string
	Command scheduler.Command
	Label   string
}

// A KeyMap is an ordered list of key bindings.
type KeyMap []Binding

// DefaultKeyMap returns the classic bindings. p toggles the pause and c only
// resumes a paused run.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		{Key: "i", Command: scheduler.CommandInterrupt, Label: "interrupt"},
		{Key: "e", Command: scheduler.CommandFail, Label: "error"},
		{Key: "p", Command: scheduler.CommandTogglePause, Label: "pause"},
		{Key: "c", Command: scheduler.CommandResume, Label: "continue"},
	}
}

// Lookup returns the command bound to key, or CommandNone.
func (k KeyMap) Lookup(key string) scheduler.Command {
	key = strings.ToLower(strings.TrimSpace(key))

	for _, b := range k {
		if b.Key == key {
			return b.Command
		}
	}

	return scheduler.CommandNone
}

// Help returns the one-line key help.
func (k KeyMap) Help() string {
	parts := make([]string, 0, len(k))
	for _, b := range k {
		parts = append(parts, fmt.Sprintf("[%s] %s", b.Key, b.Label))
	}

	return strings.Join(parts, "  ")
}
