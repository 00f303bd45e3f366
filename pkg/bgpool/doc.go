// Package bgpool implements a fixed-size worker pool for recurring background
// maintenance tasks.
//
// Unlike a job queue, a task registered here is not a one-shot unit of work:
// it is a long-lived callable that the pool invokes again and again, at a
// cadence the task itself steers through its boolean return value ("did I do
// useful work?") and through explicit Wake calls from outside.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Pool                                   │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────┬───────┘      └──────┬───────┘      └──────┬───────┘       │
//	│         │ select/execute      │                     │               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                               │                                     │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                    Task list (ordered)                  │        │
//	│  │  [task] [task] [task] ...                               │        │
//	│  │  front = weak priority hint, back = recently executed   │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│          ▲ AddTask (front)            ▲ Wake (splice front)         │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
// Pool:
//   - Owns N worker goroutines, spawned eagerly at construction
//   - Holds the shared task list and the wake event
//   - Aggregates named counters published by running tasks
//
// TaskHandle:
//   - One per registered task: the callable, its next-run time, a removed
//     flag, and a readers-writer lock separating "may execute" from
//     "may be deleted"
//   - Doubles as the caller's handle; Wake requests earlier execution
//
// Context:
//   - Handed to each invocation; Increment publishes counter deltas that are
//     rolled back automatically when the invocation ends, so the shared
//     counters gauge live activity rather than cumulative totals
//
// # Worker Loop
//
//  1. Sleep a random initial jitter so workers started together spread out.
//  2. Under the tasks mutex, walk the list from the front (at most scanLimit
//     entries) and pick the non-removed task with the smallest next-run time;
//     splice the pick to the back of the list. The back-splice is the
//     tie-breaker among equally-ready tasks and is what rotates the tail of a
//     large list into the scan window.
//  3. Empty list: wait on the wake event for sleepInterval plus jitter, then
//     start over.
//  4. Pick not ready yet: wait for (nextRun - now) plus jitter, then start
//     over.
//  5. Otherwise take the task's lock in shared mode — several workers may
//     execute the same task at once; tasks must tolerate that — re-check the
//     removed flag, and invoke the callable.
//  6. A task that reports useful work is eligible again immediately; one that
//     found nothing to do is pushed out by sleepInterval. A panicking task is
//     logged and followed by a full sleepInterval dampening wait.
//
// # Removal
//
// RemoveTask first flips the removed flag (so no new invocation starts), then
// acquires the task's lock exclusively and releases it — a pure barrier that
// blocks until every in-flight invocation has drained — and only then unlinks
// the record from the list. It is idempotent and safe to call from inside
// another task.
//
// # Wake Protocol
//
// AddTask notifies every waiting worker (a new task may make many of them
// productive). Wake notifies exactly one: a single idle worker is enough to
// service it, and if all workers are busy the lowered next-run time is picked
// up on their next selection pass anyway.
//
// # Usage
//
//	pool, err := bgpool.New(4)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	handle := pool.AddTask(func(ctx *bgpool.Context) bool {
//	    n := mergeSomeParts()
//	    ctx.Increment("merges_in_flight", int64(n))
//	    return n > 0
//	})
//
//	// Later, from another goroutine:
//	handle.Wake()          // run it sooner
//	pool.RemoveTask(handle) // drain and retire it
package bgpool
