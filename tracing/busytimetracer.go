package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/procsched/sim"
)

type interval struct {
	start, end sim.VTimeInSec
}

// BusyTimeTracer traces the time that a domain is processing a kind of task.
// If the task processing time overlaps, this tracer only consider one instance
// of the overlapped time.
type BusyTimeTracer struct {
	lock          sync.Mutex
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	inflightTasks map[string]sim.VTimeInSec
	taskTimes     []interval
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts all
// tasks.
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]sim.VTimeInSec),
	}
}

// StartTask records the task start time.
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = now
	t.lock.Unlock()
}

// EndTask records the end of the task.
func (t *BusyTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)
	t.taskTimes = append(t.taskTimes, interval{start: start, end: now})
}

// TerminateAllTasks marks all the in-flight tasks as completed at now.
func (t *BusyTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, start := range t.inflightTasks {
		t.taskTimes = append(t.taskTimes, interval{start: start, end: now})
		delete(t.inflightTasks, id)
	}
}

// BusyTime returns the union of the time covered by the completed tasks.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInSec {
	t.lock.Lock()
	times := make([]interval, len(t.taskTimes))
	copy(times, t.taskTimes)
	t.lock.Unlock()

	if len(times) == 0 {
		return 0
	}

	sort.Slice(times, func(i, j int) bool {
		return times[i].start < times[j].start
	})

	var busy sim.VTimeInSec

	current := times[0]
	for _, next := range times[1:] {
		if next.start > current.end {
			busy += current.end - current.start
			current = next

			continue
		}

		if next.end > current.end {
			current.end = next.end
		}
	}

	busy += current.end - current.start

	return busy
}
