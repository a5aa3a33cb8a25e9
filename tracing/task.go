package tracing

import "github.com/sarchlab/procsched/sim"

// A Task is an interval during which a process stays in one state.
type Task struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parent_id"`
	Kind      string         `json:"kind"`
	What      string         `json:"what"`
	Where     string         `json:"where"`
	StartTime sim.VTimeInSec `json:"start_time"`
	EndTime   sim.VTimeInSec `json:"end_time"`
	Detail    any            `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// FilterByWhat keeps the tasks whose What field matches.
func FilterByWhat(what string) TaskFilter {
	return func(t Task) bool {
		return t.What == what
	}
}
