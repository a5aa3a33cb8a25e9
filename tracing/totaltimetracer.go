package tracing

import (
	"sync"

	"github.com/sarchlab/procsched/sim"
)

// TotalTimeTracer can collect the total time of executing a certain type of
// task. If the execution of two tasks overlaps, this tracer will simply add
// the two task processing time together.
type TotalTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	totalTime     sim.VTimeInSec
	inflightTasks map[string]sim.VTimeInSec
}

// NewTotalTimeTracer creates a new TotalTimeTracer. A nil filter accepts all
// tasks.
func NewTotalTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *TotalTimeTracer {
	return &TotalTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]sim.VTimeInSec),
	}
}

// TotalTime returns the total time has been spent on a certain type of tasks.
func (t *TotalTimeTracer) TotalTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalTime
}

// StartTask records the task start time
func (t *TotalTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = now
	t.lock.Unlock()
}

// EndTask records the end of the task
func (t *TotalTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	t.totalTime += now - start
	delete(t.inflightTasks, task.ID)
}

// TerminateAllTasks ends all the open tasks at now.
func (t *TotalTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, start := range t.inflightTasks {
		t.totalTime += now - start
		delete(t.inflightTasks, id)
	}
}
