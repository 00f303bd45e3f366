package bgpool

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// worker is the body of one pool goroutine: select a task, honor its ready
// time, execute it under its shared lock, update its next-run time, repeat.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log := zap.S().Named("bgpool")
	rng := rand.New(rand.NewPCG(uint64(id)+1, uint64(time.Now().UnixNano())))

	// Workers started together spread out before the first selection.
	select {
	case <-time.After(p.jitter(rng)):
	case <-p.done:
		return
	}

	for !p.shutdown.Load() {
		task, minTime := p.selectTask()

		if p.shutdown.Load() {
			return
		}

		if task == nil {
			p.waitWake(p.sleepInterval + p.jitter(rng))
			continue
		}

		if now := time.Now(); minTime.After(now) {
			// Not ready yet: park until around its ready time, then
			// re-select from scratch.
			p.waitWake(minTime.Sub(now) + p.jitter(rng))
			continue
		}

		ok := p.runTask(task, log)

		if p.shutdown.Load() {
			return
		}

		if !ok {
			// Dampen a misbehaving task: full interval, no jitter.
			p.waitWake(p.sleepInterval)
		}
	}
}

// selectTask walks the list from the front and picks the non-removed task
// with the smallest next-run time, visiting at most scanLimit entries. The
// cap bounds selection latency on large lists; tasks past it are rotated into
// view because every executed task is spliced to the back. The pick is
// demoted to the back here, which breaks ties among equally-ready tasks in
// favor of the least recently considered one.
func (p *Pool) selectTask() (*TaskHandle, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var chosen *TaskHandle
	var minTime time.Time

	i := 0
	for e := p.tasks.front(); e != nil; e = e.Next() {
		t := e.Value.(*TaskHandle)
		if t.removed.Load() {
			continue
		}

		if chosen == nil || t.nextRun.Before(minTime) {
			chosen = t
			minTime = t.nextRun
		}

		i++
		if i >= p.scanLimit {
			break
		}
	}

	if chosen != nil {
		p.tasks.moveToBack(chosen.elem)
	}
	return chosen, minTime
}

// runTask executes one invocation of t under its shared lock. It reports
// false only when the task panicked; the caller applies the dampening wait.
func (p *Pool) runTask(t *TaskHandle, log *zap.SugaredLogger) (ok bool) {
	t.exec.RLock()
	defer t.exec.RUnlock()

	// A task marked removed after selection must not start.
	if t.removed.Load() {
		return true
	}

	ctx := &Context{pool: p}
	defer p.rollbackCounters(ctx)

	if p.activeTasks != nil {
		p.activeTasks.Inc()
		defer p.activeTasks.Dec()
	}

	ok = true
	defer func() {
		if r := recover(); r != nil {
			ok = false
			log.Errorw("task panicked", "task", t.id, "panic", r)
			// A panic counts as no useful work: push the task out by the
			// sleep interval so it cannot monopolize selection.
			p.mu.Lock()
			t.nextRun = time.Now().Add(p.sleepInterval)
			p.mu.Unlock()
		}
	}()

	doneWork := t.fn(ctx)

	// Useful work makes the task eligible again at once; an idle pass is
	// rate-limited by the sleep interval.
	p.mu.Lock()
	if doneWork {
		t.nextRun = time.Now()
	} else {
		t.nextRun = time.Now().Add(p.sleepInterval)
	}
	p.mu.Unlock()

	return true
}

func (p *Pool) jitter(rng *rand.Rand) time.Duration {
	if p.sleepJitter <= 0 {
		return 0
	}
	return time.Duration(rng.Float64() * float64(p.sleepJitter))
}
