package bgpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultSleepInterval is the delay before re-invoking a task that
	// reported no useful work, and the idle wait when the list is empty.
	DefaultSleepInterval = 10 * time.Second

	// DefaultSleepJitter is the upper bound of the random extra added to
	// waits, preventing thundering-herd wakes.
	DefaultSleepJitter = time.Second

	// DefaultScanLimit caps how many list entries one selection pass visits.
	DefaultScanLimit = 100
)

// Option tunes a Pool at construction time.
type Option func(*Pool)

// WithSleepInterval overrides the base sleep interval.
func WithSleepInterval(d time.Duration) Option {
	return func(p *Pool) { p.sleepInterval = d }
}

// WithSleepJitter overrides the random jitter bound.
func WithSleepJitter(d time.Duration) Option {
	return func(p *Pool) { p.sleepJitter = d }
}

// WithScanLimit overrides the selection scan cap.
func WithScanLimit(n int) Option {
	return func(p *Pool) { p.scanLimit = n }
}

// WithActiveTaskGauge wires the gauge incremented around every task
// invocation. The pool does not register it anywhere; the owning process
// decides the registry.
func WithActiveTaskGauge(g prometheus.Gauge) Option {
	return func(p *Pool) { p.activeTasks = g }
}
