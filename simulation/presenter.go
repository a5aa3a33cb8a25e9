package simulation

import "github.com/sarchlab/procsched/scheduler"

// A Presenter receives the state of the simulation. Presenters are called from
// the runner goroutine only and must not block.
type Presenter interface {
	// Present shows the snapshot taken after one iteration.
	Present(s scheduler.Snapshot)

	// Message shows a notice, such as the key help or a rejected command.
	Message(msg string)

	// Done is called once, after the last process finished or the run was
	// cancelled.
	Done(s scheduler.Snapshot)
}

// A Commander accepts commands from an input device.
type Commander interface {
	// Submit queues a command without blocking. It returns false if the
	// command was dropped.
	Submit(cmd scheduler.Command) bool
}
