package api

import (
	"sync"
	"time"

	"github.com/sadopc/pomoscreen/internal/scheduler"
)

// StatusBoard holds the latest scheduler snapshot for HTTP readers.
// The UI goroutine publishes, handler goroutines read.
type StatusBoard struct {
	mu        sync.RWMutex
	snapshot  scheduler.Snapshot
	updatedAt time.Time
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{}
}

func (b *StatusBoard) Publish(s scheduler.Snapshot) {
	b.mu.Lock()
	b.snapshot = s
	b.updatedAt = time.Now()
	b.mu.Unlock()
}

// Current returns the last published snapshot and when it was published.
// The time is zero until the first Publish.
func (b *StatusBoard) Current() (scheduler.Snapshot, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot, b.updatedAt
}
