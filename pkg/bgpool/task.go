package bgpool

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TaskHandle is the per-task record and the caller's handle to it. The pool
// and the caller co-own the record; it stays valid until RemoveTask completes
// and the caller drops its reference.
type TaskHandle struct {
	id   uuid.UUID
	fn   Task
	pool *Pool

	// removed flips false→true exactly once; workers re-check it after
	// taking the shared lock.
	removed atomic.Bool

	// exec is held in shared mode for the whole duration of one invocation
	// (several workers may hold it at once) and in exclusive mode only by
	// RemoveTask, as a drain barrier.
	exec sync.RWMutex

	// elem is the task's position in the pool's list, guarded by pool.mu.
	// Stable under splice, nil once erased.
	elem *list.Element

	// nextRun is the wall-clock time before which the task should not be
	// invoked, guarded by pool.mu. The zero value means eligible now. It is
	// written only by the worker that just finished the task, or by Wake
	// pulling it earlier.
	nextRun time.Time
}

func newTaskID() uuid.UUID {
	return uuid.New()
}

// ID returns the task's identifier, used for log correlation.
func (t *TaskHandle) ID() uuid.UUID {
	return t.id
}

// Wake requests earlier execution: the task is spliced to the front of the
// list and, if it was scheduled for the future, becomes eligible now.
func (t *TaskHandle) Wake() {
	if t.removed.Load() {
		return
	}

	now := time.Now()
	p := t.pool

	p.mu.Lock()
	if t.elem != nil {
		p.tasks.moveToFront(t.elem)
	}
	if t.nextRun.After(now) {
		t.nextRun = now
	}
	p.mu.Unlock()

	// One idle worker is enough. If all workers are busy the notification
	// wakes nobody, but the earlier nextRun is observed on the next
	// selection pass.
	p.notifyOne()
}
