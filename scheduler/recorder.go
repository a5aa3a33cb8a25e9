package scheduler

import (
	"github.com/sarchlab/procsched/datarecording"
	"github.com/sarchlab/procsched/process"
	"github.com/sarchlab/procsched/sim"
)

// FinishedTableName is the table that stores the finished log.
const FinishedTableName = "finished_processes"

// FinishedEntry is the row format of the finished log.
type FinishedEntry struct {
	RunID           string
	ID              int
	EstimatedTime   float64
	ServiceTime     float64
	ArrivalTime     float64
	TerminationTime float64
	TurnaroundTime  float64
	WaitingTime     float64
	Status          string
	Operation       string
	Result          string
}

// MakeFinishedEntry converts a finished process into a row.
func MakeFinishedEntry(runID string, p process.Process) FinishedEntry {
	return FinishedEntry{
		RunID:           runID,
		ID:              p.ID,
		EstimatedTime:   float64(p.EstimatedTime),
		ServiceTime:     float64(p.ServiceTime),
		ArrivalTime:     float64(p.ArrivalTime),
		TerminationTime: float64(p.TerminationTime),
		TurnaroundTime:  float64(p.TurnaroundTime),
		WaitingTime:     float64(p.WaitingTime),
		Status:          p.Status.String(),
		Operation:       p.Operation.String(),
		Result:          p.Result,
	}
}

// A Recorder is a hook that writes every terminated process into a
// DataRecorder.
type Recorder struct {
	runID   string
	backend datarecording.DataRecorder
}

// NewRecorder creates the finished table and returns the hook.
func NewRecorder(
	runID string,
	backend datarecording.DataRecorder,
) *Recorder {
	backend.CreateTable(FinishedTableName, FinishedEntry{})

	return &Recorder{
		runID:   runID,
		backend: backend,
	}
}

// Func records the process carried by a terminate hook.
func (r *Recorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosTerminate {
		return
	}

	p := ctx.Item.(process.Process)
	r.backend.InsertData(FinishedTableName, MakeFinishedEntry(r.runID, p))
}
