// Package process defines the simulated process entity and the policies that
// create processes.
package process

import (
	"log"

	"github.com/sarchlab/procsched/sim"
)

// Unset marks a timestamp that has not been stamped yet.
const Unset sim.VTimeInSec = -1

// ResultError is the result recorded for processes that terminated with a
// failure.
const ResultError = "ERROR"

// Status tells how a process terminated.
type Status int

// The termination statuses.
const (
	StatusNone Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "none"
	}
}

// State tells which collection of the scheduler a process lives in.
type State int

// The process states.
const (
	StatePending State = iota
	StateReady
	StateRunning
	StateBlocked
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// A Process is one unit of simulated work together with its timing
// statistics.
type Process struct {
	ID            int
	EstimatedTime sim.VTimeInSec
	Operation     Operation
	State         State

	ServiceTime sim.VTimeInSec
	BlockedTime sim.VTimeInSec

	ArrivalTime     sim.VTimeInSec
	TerminationTime sim.VTimeInSec
	TurnaroundTime  sim.VTimeInSec
	WaitingTime     sim.VTimeInSec

	Status Status
	Result string
}

// New creates a pending process that has not arrived yet.
func New(id int, estimated sim.VTimeInSec, op Operation) Process {
	if estimated <= 0 {
		log.Panicf("process %d: estimated time must be positive, got %v",
			id, estimated)
	}

	return Process{
		ID:              id,
		EstimatedTime:   estimated,
		Operation:       op,
		State:           StatePending,
		ArrivalTime:     Unset,
		TerminationTime: Unset,
		TurnaroundTime:  Unset,
		WaitingTime:     Unset,
	}
}

// HasArrived returns true if the arrival time has been stamped.
func (p *Process) HasArrived() bool {
	return p.ArrivalTime != Unset
}

// IsFinished returns true once the process has terminated.
func (p *Process) IsFinished() bool {
	return p.Status != StatusNone
}

// TimeLeft returns the service time still required.
func (p *Process) TimeLeft() sim.VTimeInSec {
	left := p.EstimatedTime - p.ServiceTime
	if left < 0 {
		return 0
	}

	return left
}

// Arrive stamps the arrival time. It returns false and leaves the process
// untouched if the process already arrived.
func (p *Process) Arrive(now sim.VTimeInSec) bool {
	if p.HasArrived() {
		return false
	}

	p.ArrivalTime = now

	return true
}

// Serve accumulates service time, never beyond the estimate. It returns true
// when the service requirement is met.
func (p *Process) Serve(delta sim.VTimeInSec) bool {
	p.ServiceTime += delta
	if p.ServiceTime >= p.EstimatedTime {
		p.ServiceTime = p.EstimatedTime
		return true
	}

	return false
}

// Block resets the blocked time for a new stay in the blocked collection.
func (p *Process) Block() {
	p.BlockedTime = 0
	p.State = StateBlocked
}

// Wait accumulates blocked time and returns true when the timeout is reached.
func (p *Process) Wait(delta, timeout sim.VTimeInSec) bool {
	p.BlockedTime += delta
	return p.BlockedTime >= timeout
}

// Finish stamps the termination and freezes the derived statistics.
func (p *Process) Finish(now sim.VTimeInSec, status Status) {
	if p.IsFinished() {
		log.Panicf("process %d finished twice", p.ID)
	}

	if status == StatusNone {
		log.Panicf("process %d: termination status must be set", p.ID)
	}

	if !p.HasArrived() {
		log.Panicf("process %d finished before arriving", p.ID)
	}

	p.Status = status
	p.State = StateFinished
	p.TerminationTime = now
	p.TurnaroundTime = p.TerminationTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.ServiceTime
	p.Result = p.evaluate()
}

func (p *Process) evaluate() string {
	if p.Status == StatusFailure {
		return ResultError
	}

	if p.Operation.Operator == 0 {
		return p.Operation.String()
	}

	result, err := p.Operation.Evaluate()
	if err != nil {
		return ResultError
	}

	return result.String()
}
