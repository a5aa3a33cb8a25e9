package scheduler

import (
	"sort"

	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
)

// ProcessView is a read-only copy of a process as seen at one instant.
type ProcessView struct {
	process.Process

	TimeLeft    sim.VTimeInSec `json:"time_left"`
	BlockedLeft sim.VTimeInSec `json:"blocked_left"`
}

// Snapshot is an immutable picture of the engine taken after a tick. It
// shares no memory with the engine.
type Snapshot struct {
	Elapsed        sim.VTimeInSec `json:"elapsed"`
	Window         int            `json:"window"`
	BlockedTimeout sim.VTimeInSec `json:"blocked_timeout"`
	Total          int            `json:"total"`
	Paused         bool           `json:"paused"`

	Pending  []ProcessView `json:"pending"`
	Running  *ProcessView  `json:"running"`
	Ready    []ProcessView `json:"ready"`
	Blocked  []ProcessView `json:"blocked"`
	Finished []ProcessView `json:"finished"`
}

// Snapshot copies the current state out of the engine.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Elapsed:        e.clock.Elapsed(),
		Window:         e.window,
		BlockedTimeout: e.blockedTimeout,
		Total:          len(e.procs),
		Pending:        e.views(e.pending),
		Ready:          e.views(e.ready),
		Blocked:        e.views(e.blocked),
		Finished:       e.views(e.finished),
	}

	if e.running != noProcess {
		v := e.view(e.running)
		s.Running = &v
	}

	return s
}

func (e *Engine) views(indices []int) []ProcessView {
	views := make([]ProcessView, 0, len(indices))
	for _, idx := range indices {
		views = append(views, e.view(idx))
	}

	return views
}

func (e *Engine) view(idx int) ProcessView {
	p := e.procs[idx]

	v := ProcessView{
		Process:  p,
		TimeLeft: p.TimeLeft(),
	}

	if p.State == process.StateBlocked {
		v.BlockedLeft = e.blockedTimeout - p.BlockedTime
		if v.BlockedLeft < 0 {
			v.BlockedLeft = 0
		}
	}

	return v
}

// NumPending returns the number of processes not admitted yet.
func (s Snapshot) NumPending() int {
	return len(s.Pending)
}

// InFlight returns the number of admitted processes that did not finish.
func (s Snapshot) InFlight() int {
	n := len(s.Ready) + len(s.Blocked)
	if s.Running != nil {
		n++
	}

	return n
}

// IsComplete tells if every process has finished.
func (s Snapshot) IsComplete() bool {
	return len(s.Finished) == s.Total
}

// PCB lists every process, whatever its state, ordered by ID.
func (s Snapshot) PCB() []ProcessView {
	all := make([]ProcessView, 0, s.Total)
	all = append(all, s.Pending...)
	all = append(all, s.Ready...)
	all = append(all, s.Blocked...)
	all = append(all, s.Finished...)

	if s.Running != nil {
		all = append(all, *s.Running)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	return all
}

// Find returns the process with the given ID.
func (s Snapshot) Find(id int) (ProcessView, bool) {
	for _, v := range s.PCB() {
		if v.ID == id {
			return v, true
		}
	}

	return ProcessView{}, false
}

// Stats summarizes the finished processes.
type Stats struct {
	Finished          int            `json:"finished"`
	Succeeded         int            `json:"succeeded"`
	Failed            int            `json:"failed"`
	AverageTurnaround sim.VTimeInSec `json:"average_turnaround"`
	AverageWaiting    sim.VTimeInSec `json:"average_waiting"`
	AverageService    sim.VTimeInSec `json:"average_service"`
}

// Stats computes the averages over the finished log.
func (s Snapshot) Stats() Stats {
	st := Stats{Finished: len(s.Finished)}
	if st.Finished == 0 {
		return st
	}

	var turnaround, waiting, service sim.VTimeInSec

	for _, p := range s.Finished {
		turnaround += p.TurnaroundTime
		waiting += p.WaitingTime
		service += p.ServiceTime

		if p.Status == process.StatusSuccess {
			st.Succeeded++
		} else {
			st.Failed++
		}
	}

	n := sim.VTimeInSec(st.Finished)
	st.AverageTurnaround = turnaround / n
	st.AverageWaiting = waiting / n
	st.AverageService = service / n

	return st
}
