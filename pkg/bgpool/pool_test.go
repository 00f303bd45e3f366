package bgpool_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quarrydb/janitor/pkg/bgpool"
	srvErrors "github.com/quarrydb/janitor/pkg/errors"
)

// Intervals are shrunk so the suite runs in seconds; the scheduling policy
// under test is interval-relative, not tied to the 10s production default.
const (
	testInterval = 300 * time.Millisecond
	testJitter   = 50 * time.Millisecond
)

var _ = Describe("Pool", func() {
	var pool *bgpool.Pool

	newPool := func(size int, opts ...bgpool.Option) *bgpool.Pool {
		base := []bgpool.Option{
			bgpool.WithSleepInterval(testInterval),
			bgpool.WithSleepJitter(testJitter),
		}
		p, err := bgpool.New(size, append(base, opts...)...)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	AfterEach(func() {
		if pool != nil {
			pool.Close()
			pool = nil
		}
	})

	Describe("New", func() {
		It("should reject a worker count below one", func() {
			_, err := bgpool.New(0)
			Expect(err).To(HaveOccurred())

			var sizeErr *srvErrors.InvalidPoolSizeError
			Expect(err).To(BeAssignableToTypeOf(sizeErr))
		})
	})

	Describe("AddTask", func() {
		It("should invoke a task from multiple workers", func() {
			pool = newPool(2)

			var invocations atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				return true
			})

			Eventually(invocations.Load, 2*time.Second).Should(BeNumerically(">=", 2))
		})

		It("should re-invoke a productive task with no enforced delay", func() {
			pool = newPool(1)

			var invocations atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				return true
			})

			// Far more invocations than sleep intervals fit in the window.
			Eventually(invocations.Load, 2*time.Second).Should(BeNumerically(">", 20))
		})
	})

	Describe("Backoff", func() {
		It("should rate-limit a task that reports no useful work", func() {
			pool = newPool(1)

			var mu sync.Mutex
			var stamps []time.Time
			pool.AddTask(func(ctx *bgpool.Context) bool {
				mu.Lock()
				stamps = append(stamps, time.Now())
				mu.Unlock()
				return false
			})

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(stamps)
			}, 4*time.Second, 20*time.Millisecond).Should(BeNumerically(">=", 3))

			mu.Lock()
			defer mu.Unlock()
			for i := 1; i < len(stamps); i++ {
				gap := stamps[i].Sub(stamps[i-1])
				// Lower bound allows a little scheduler slack; upper bound
				// covers interval + jitter + slack.
				Expect(gap).To(BeNumerically(">=", testInterval-50*time.Millisecond))
				Expect(gap).To(BeNumerically("<=", testInterval+testJitter+500*time.Millisecond))
			}
		})
	})

	Describe("RemoveTask", func() {
		It("should stop invocations after removal completes", func() {
			pool = newPool(2)

			var invocations atomic.Int64
			handle := pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				return true
			})

			Eventually(invocations.Load, 2*time.Second).Should(BeNumerically(">", 0))

			pool.RemoveTask(handle)
			after := invocations.Load()

			Consistently(invocations.Load, 500*time.Millisecond, 20*time.Millisecond).Should(Equal(after))
		})

		It("should not return while an invocation is in progress", func() {
			pool = newPool(1)

			started := make(chan struct{})
			gate := make(chan struct{})
			handle := pool.AddTask(func(ctx *bgpool.Context) bool {
				close(started)
				<-gate
				return true
			})

			Eventually(started, 2*time.Second).Should(BeClosed())

			removeDone := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				pool.RemoveTask(handle)
				close(removeDone)
			}()

			Consistently(removeDone, 300*time.Millisecond).ShouldNot(BeClosed())
			close(gate)
			Eventually(removeDone, 2*time.Second).Should(BeClosed())
		})

		It("should be idempotent", func() {
			pool = newPool(1)

			handle := pool.AddTask(func(ctx *bgpool.Context) bool { return false })
			pool.RemoveTask(handle)
			pool.RemoveTask(handle)

			// Waking a removed task is a no-op, not a crash.
			handle.Wake()
		})

		It("should be callable from inside another task", func() {
			pool = newPool(2)

			var victimRuns atomic.Int64
			victim := pool.AddTask(func(ctx *bgpool.Context) bool {
				victimRuns.Add(1)
				return false
			})

			removed := make(chan struct{})
			var once sync.Once
			pool.AddTask(func(ctx *bgpool.Context) bool {
				once.Do(func() {
					pool.RemoveTask(victim)
					close(removed)
				})
				return false
			})

			Eventually(removed, 2*time.Second).Should(BeClosed())
			after := victimRuns.Load()
			Consistently(victimRuns.Load, 400*time.Millisecond).Should(Equal(after))
		})
	})

	Describe("Counters", func() {
		It("should expose in-flight deltas and roll them back on return", func() {
			pool = newPool(1)

			started := make(chan struct{})
			gate := make(chan struct{})
			var once sync.Once
			pool.AddTask(func(ctx *bgpool.Context) bool {
				once.Do(func() {
					ctx.Increment("parts_in_merge", 5)
					close(started)
					<-gate
				})
				return false
			})

			Eventually(started, 2*time.Second).Should(BeClosed())
			Expect(pool.GetCounter("parts_in_merge")).To(Equal(int64(5)))

			close(gate)
			Eventually(func() int64 {
				return pool.GetCounter("parts_in_merge")
			}, 2*time.Second).Should(BeZero())
		})

		It("should roll back counters when the task panics", func() {
			pool = newPool(1)

			var invocations atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				ctx.Increment("x", 5)
				panic("boom")
			})

			Eventually(invocations.Load, 2*time.Second).Should(BeNumerically(">", 0))
			Eventually(func() int64 {
				return pool.GetCounter("x")
			}, 2*time.Second).Should(BeZero())
		})

		It("should net to zero across many random increments", func() {
			pool = newPool(4)

			var invocations atomic.Int64
			for i := 0; i < 8; i++ {
				delta := int64(i - 3)
				shouldPanic := i%3 == 0
				pool.AddTask(func(ctx *bgpool.Context) bool {
					invocations.Add(1)
					ctx.Increment("net", delta)
					ctx.Increment("net", -2*delta)
					if shouldPanic {
						panic("deliberate")
					}
					return false
				})
			}

			Eventually(invocations.Load, 4*time.Second).Should(BeNumerically(">=", 8))
			Eventually(func() int64 {
				return pool.GetCounter("net")
			}, 2*time.Second).Should(BeZero())
		})

		It("should return zero for an unknown counter", func() {
			pool = newPool(1)
			Expect(pool.GetCounter("never_written")).To(BeZero())
		})
	})

	Describe("Panicking tasks", func() {
		It("should keep a panicking task scheduled and dampen it", func() {
			pool = newPool(1)

			var invocations atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				panic("always")
			})

			// Re-invoked after each dampening wait, never dropped.
			Eventually(invocations.Load, 4*time.Second).Should(BeNumerically(">=", 2))
		})

		It("should not let one panicking task starve another", func() {
			pool = newPool(2)

			pool.AddTask(func(ctx *bgpool.Context) bool {
				panic("always")
			})

			var healthy atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				healthy.Add(1)
				return true
			})

			Eventually(healthy.Load, 2*time.Second).Should(BeNumerically(">", 5))
		})
	})

	Describe("Wake", func() {
		It("should run a far-scheduled task promptly", func() {
			pool = newPool(1, bgpool.WithSleepInterval(time.Hour), bgpool.WithSleepJitter(100*time.Millisecond))

			var invocations atomic.Int64
			handle := pool.AddTask(func(ctx *bgpool.Context) bool {
				invocations.Add(1)
				return false
			})

			// First run happens immediately; the false return schedules the
			// next one an hour out.
			Eventually(invocations.Load, 2*time.Second).Should(Equal(int64(1)))
			// Let the worker finish the post-invocation bookkeeping so the
			// hour-long next-run time is in place before the wake.
			time.Sleep(100 * time.Millisecond)

			start := time.Now()
			handle.Wake()

			Eventually(invocations.Load, 3*time.Second, 10*time.Millisecond).Should(Equal(int64(2)))
			Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		})
	})

	Describe("Concurrent re-entry", func() {
		It("should execute one task on all workers at once", func() {
			pool = newPool(4)

			var current, max atomic.Int64
			pool.AddTask(func(ctx *bgpool.Context) bool {
				n := current.Add(1)
				for {
					m := max.Load()
					if n <= m || max.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(100 * time.Millisecond)
				current.Add(-1)
				return true
			})

			Eventually(max.Load, 5*time.Second).Should(Equal(int64(4)))
		})
	})

	Describe("Rotation", func() {
		It("should not starve tasks beyond the selection scan cap", func() {
			pool = newPool(4, bgpool.WithSleepJitter(10*time.Millisecond))

			const taskCount = 1000
			seen := make([]atomic.Bool, taskCount)
			for i := 0; i < taskCount; i++ {
				idx := i
				pool.AddTask(func(ctx *bgpool.Context) bool {
					seen[idx].Store(true)
					time.Sleep(time.Millisecond)
					return true
				})
			}

			Eventually(func() int {
				n := 0
				for i := range seen {
					if seen[i].Load() {
						n++
					}
				}
				return n
			}, 5*time.Second, 100*time.Millisecond).Should(Equal(taskCount))
		})
	})

	Describe("Close", func() {
		It("should complete promptly with idle registered tasks", func() {
			p := newPool(4)
			for i := 0; i < 10; i++ {
				p.AddTask(func(ctx *bgpool.Context) bool { return false })
			}

			time.Sleep(100 * time.Millisecond)

			closed := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				p.Close()
				close(closed)
			}()
			Eventually(closed, 3*time.Second).Should(BeClosed())
		})

		It("should wait for in-flight invocations under load", func() {
			p := newPool(4)

			var finished atomic.Int64
			for i := 0; i < 4; i++ {
				p.AddTask(func(ctx *bgpool.Context) bool {
					time.Sleep(200 * time.Millisecond)
					finished.Add(1)
					return true
				})
			}

			Eventually(finished.Load, 2*time.Second).Should(BeNumerically(">", 0))

			closed := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				p.Close()
				close(closed)
			}()
			Eventually(closed, 3*time.Second).Should(BeClosed())
		})

		It("should be idempotent", func() {
			p := newPool(1)
			p.Close()
			p.Close()
		})
	})
})
