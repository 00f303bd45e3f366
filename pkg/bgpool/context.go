package bgpool

// Context is handed to a task for the duration of one invocation. Its only
// capability is publishing counter deltas into the pool; every delta is
// recorded locally and subtracted back out when the invocation ends, normally
// or by panic. Net over a full task lifecycle the shared counters are
// untouched, so they measure in-flight quantities, not cumulative totals.
//
// A Context must not be retained past the invocation it was created for.
type Context struct {
	pool *Pool
	diff map[string]int64
}

// Increment adds delta to the pool counter name and records it for rollback.
func (c *Context) Increment(name string, delta int64) {
	c.pool.countersMu.Lock()
	c.pool.counters[name] += delta
	c.pool.countersMu.Unlock()

	if c.diff == nil {
		c.diff = make(map[string]int64)
	}
	c.diff[name] += delta
}

// rollbackCounters undoes every delta the invocation published. It runs
// unconditionally at execution exit and cannot fail.
func (p *Pool) rollbackCounters(c *Context) {
	if len(c.diff) == 0 {
		return
	}
	p.countersMu.Lock()
	for name, delta := range c.diff {
		p.counters[name] -= delta
	}
	p.countersMu.Unlock()
}
