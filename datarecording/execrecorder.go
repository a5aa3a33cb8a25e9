package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTableName is the table that holds the properties of a run.
const ExecTableName = "exec_info"

const execTimeFormat = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a recorded run.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records the properties of a program execution, such as the
// command line and the simulation parameters.
type ExecRecorder struct {
	recorder DataRecorder
	now      func() time.Time
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTableName, ExecInfo{})

	return &ExecRecorder{
		recorder: recorder,
		now:      time.Now,
	}
}

// Start records the start time and the command line.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", e.now().Format(execTimeFormat))
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err == nil {
		e.Set("Working Directory", cwd)
	}
}

// Set records a property. Properties are written in the order they are set.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes all properties along with the end time.
func (e *ExecRecorder) End() {
	e.Set("End Time", e.now().Format(execTimeFormat))

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
