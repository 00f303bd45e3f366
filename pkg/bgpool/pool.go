package bgpool

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	srvErrors "github.com/quarrydb/janitor/pkg/errors"
)

// Task is a user-supplied callable invoked repeatedly by the pool. The return
// value reports whether the invocation did useful work: true makes the task
// eligible again immediately, false delays it by the pool's sleep interval.
//
// The same task may be invoked from several workers at once; callables must
// be safe under concurrent invocation.
type Task func(ctx *Context) bool

// Pool runs a dynamic set of recurring tasks on a fixed set of workers.
type Pool struct {
	sleepInterval time.Duration
	sleepJitter   time.Duration
	scanLimit     int
	activeTasks   prometheus.Gauge

	// mu guards the task list, the waiter queue, and every nextRun
	// read or write used for selection.
	mu      sync.Mutex
	tasks   *taskList
	waiters *list.List

	countersMu sync.Mutex
	counters   map[string]int64

	shutdown atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// New creates a pool with size workers and starts them immediately.
func New(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, srvErrors.NewInvalidPoolSizeError(size)
	}

	p := &Pool{
		sleepInterval: DefaultSleepInterval,
		sleepJitter:   DefaultSleepJitter,
		scanLimit:     DefaultScanLimit,
		tasks:         newTaskList(),
		waiters:       list.New(),
		counters:      make(map[string]int64),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	zap.S().Named("bgpool").Infow("starting background processing pool", "workers", size)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	return p, nil
}

// AddTask registers a callable with the pool. The task is inserted at the
// front of the list so it is considered on the next selection pass, and every
// waiting worker is woken. The zero next-run time makes it eligible at once.
func (p *Pool) AddTask(fn Task) *TaskHandle {
	t := &TaskHandle{
		id:   newTaskID(),
		fn:   fn,
		pool: p,
	}

	p.mu.Lock()
	t.elem = p.tasks.pushFront(t)
	p.mu.Unlock()

	p.notifyAll()
	return t
}

// RemoveTask retires a task. It is idempotent, safe to call from any
// goroutine including from inside another task, and does not return while an
// invocation of the task is still in progress.
func (p *Pool) RemoveTask(t *TaskHandle) {
	if t.removed.Swap(true) {
		return
	}

	// Drain: an exclusive acquisition of the task's lock cannot succeed
	// until every worker holding it in shared mode has finished the
	// invocation. No work happens inside; the lock round-trip is the barrier.
	t.exec.Lock()
	t.exec.Unlock() //nolint:staticcheck

	p.mu.Lock()
	if t.elem != nil {
		p.tasks.remove(t.elem)
		t.elem = nil
	}
	p.mu.Unlock()
}

// GetCounter returns the current value of a named counter, zero if absent.
func (p *Pool) GetCounter(name string) int64 {
	p.countersMu.Lock()
	defer p.countersMu.Unlock()
	return p.counters[name]
}

// Close stops the pool: it signals shutdown, wakes every worker, and waits
// for all of them to exit. Tasks never explicitly removed are dropped with
// the pool. Close is idempotent and never panics.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.shutdown.Store(true)
		// Closing done is the shutdown broadcast: every timed wait
		// selects on it.
		close(p.done)
		p.wg.Wait()
		zap.S().Named("bgpool").Info("background processing pool stopped")
	})
}

// notifyOne wakes a single waiting worker, if any. A notification with no
// waiter is lost; callers rely on the next selection pass instead.
func (p *Pool) notifyOne() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e := p.waiters.Front(); e != nil {
		w := e.Value.(*waiter)
		p.waiters.Remove(e)
		w.elem = nil
		close(w.ch)
	}
}

// notifyAll wakes every waiting worker.
func (p *Pool) notifyAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for e := p.waiters.Front(); e != nil; e = p.waiters.Front() {
		w := e.Value.(*waiter)
		p.waiters.Remove(e)
		w.elem = nil
		close(w.ch)
	}
}

// waiter is one worker parked on the wake event. Each wait registers a fresh
// single-use channel; notify closes it. Go offers no timed wait on sync.Cond,
// so the event is modeled as this queue of channels selected against a timer.
type waiter struct {
	ch   chan struct{}
	elem *list.Element
}

// waitWake blocks for at most d, returning early when notified or when the
// pool shuts down.
func (p *Pool) waitWake(d time.Duration) {
	p.mu.Lock()
	w := &waiter{ch: make(chan struct{})}
	w.elem = p.waiters.PushBack(w)
	p.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-w.ch:
	case <-t.C:
	case <-p.done:
	}

	p.mu.Lock()
	if w.elem != nil {
		p.waiters.Remove(w.elem)
		w.elem = nil
	}
	p.mu.Unlock()
}
