package tracing

import (
	"sort"
	"sync"
)

// CountTracer counts the tasks that started, grouped by what they do.
type CountTracer struct {
	filter TaskFilter
	lock   sync.Mutex
	counts map[string]uint64
}

// NewCountTracer creates a new CountTracer. A nil filter accepts all tasks.
func NewCountTracer(filter TaskFilter) *CountTracer {
	return &CountTracer{
		filter: filter,
		counts: make(map[string]uint64),
	}
}

// StartTask counts the task.
func (t *CountTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.counts[task.What]++
	t.lock.Unlock()
}

// EndTask does nothing.
func (t *CountTracer) EndTask(_ Task) {}

// Count returns how many tasks doing what started.
func (t *CountTracer) Count(what string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[what]
}

// Names lists the counted task names in alphabetical order.
func (t *CountTracer) Names() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.counts))
	for name := range t.counts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
