package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many processes finished out of a total.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// Set replaces the finished and in-progress counts.
func (b *ProgressBar) Set(finished, inProgress uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished = finished
	b.InProgress = inProgress
}
