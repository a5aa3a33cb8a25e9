package tracing

import (
	"sync"

	"github.com/sarchlab/procsched/datarecording"
	"github.com/sarchlab/procsched/sim"
)

// TraceTableName is the table the DBTracer writes into.
const TraceTableName = "trace"

// TaskTableEntry is the row format of the trace table.
type TaskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer and the table it writes into.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TraceTableName, TaskTableEntry{})

	return &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.mu.Lock()
	t.tracingTasks[task.ID] = task
	t.mu.Unlock()
}

// EndTask marks the end of a task and writes it.
func (t *DBTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = now
	t.writeTaskToDB(originalTask)

	delete(t.tracingTasks, task.ID)
}

// TerminateAllTasks writes the tasks that are still open, ending them at now,
// and flushes the backend.
func (t *DBTracer) TerminateAllTasks(now sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, task := range t.tracingTasks {
		task.EndTime = now
		t.writeTaskToDB(task)
		delete(t.tracingTasks, id)
	}

	t.backend.Flush()
}

func (t *DBTracer) writeTaskToDB(task Task) {
	t.backend.InsertData(TraceTableName, TaskTableEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		StartTime: float64(task.StartTime),
		EndTime:   float64(task.EndTime),
	})
}
