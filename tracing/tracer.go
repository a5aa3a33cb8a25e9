package tracing

import "github.com/sarchlab/procsched/sim"

// A Tracer can collect task traces.
type Tracer interface {
	StartTask(task Task)
	EndTask(task Task)
}

// A TerminatableTracer can close the tasks that are still open when the
// simulation ends.
type TerminatableTracer interface {
	Tracer
	TerminateAllTasks(now sim.VTimeInSec)
}
