package services

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quarrydb/janitor/internal/ledger"
	"github.com/quarrydb/janitor/internal/models"
	"github.com/quarrydb/janitor/internal/store"
	"github.com/quarrydb/janitor/pkg/bgpool"
)

const defaultBatchSize = 64

// CounterFilesInCheck is the pool counter naming the files currently being
// verified across all in-flight sweep invocations.
const CounterFilesInCheck = "files_in_check"

// Maintenance owns the recurring ledger tasks: a verification sweep that
// walks the tracked set one batch per invocation, and a prune pass that drops
// records of files no longer on disk.
type Maintenance struct {
	pool      *bgpool.Pool
	ledger    *ledger.Ledger
	batchSize uint64

	mu     sync.Mutex
	status models.SweepStatus
	cursor uint64

	sweepTask *bgpool.TaskHandle
	pruneTask *bgpool.TaskHandle
}

func NewMaintenanceService(pool *bgpool.Pool, l *ledger.Ledger, batchSize int) *Maintenance {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Maintenance{
		pool:      pool,
		ledger:    l,
		batchSize: uint64(batchSize),
		status:    models.SweepStatus{State: models.SweepStateIdle},
	}
}

// Start registers the recurring tasks with the pool. Idempotent.
func (m *Maintenance) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sweepTask != nil {
		return
	}
	m.sweepTask = m.pool.AddTask(m.sweep)
	m.pruneTask = m.pool.AddTask(m.prune)
	zap.S().Named("maintenance").Info("registered ledger sweep and prune tasks")
}

// Stop retires the tasks, draining any in-flight invocation.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	sweep, prune := m.sweepTask, m.pruneTask
	m.sweepTask, m.pruneTask = nil, nil
	m.mu.Unlock()

	if sweep != nil {
		m.pool.RemoveTask(sweep)
	}
	if prune != nil {
		m.pool.RemoveTask(prune)
	}
}

// Status returns a snapshot of the sweep progress.
func (m *Maintenance) Status() models.SweepStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// CheckNow runs a full verification pass synchronously, outside the pool.
func (m *Maintenance) CheckNow(ctx context.Context) (models.CheckReport, error) {
	return m.ledger.CheckAll(ctx)
}

// sweep verifies one batch of tracked files per invocation. It reports
// useful work while a full batch was available, so the pool re-runs it
// immediately until the cursor wraps around.
func (m *Maintenance) sweep(ctx *bgpool.Context) bool {
	m.mu.Lock()
	offset := m.cursor
	m.status.State = models.SweepStateSweeping
	m.mu.Unlock()

	records, err := m.ledger.Tracked(context.Background(),
		store.WithLimit(m.batchSize), store.WithOffset(offset))
	if err != nil {
		m.failSweep(err)
		return false
	}

	if len(records) == 0 {
		m.mu.Lock()
		m.cursor = 0
		m.status.State = models.SweepStateIdle
		if offset > 0 {
			m.status.LastSweep = time.Now()
		}
		m.mu.Unlock()
		return false
	}

	ctx.Increment(CounterFilesInCheck, int64(len(records)))
	report := m.ledger.CheckRecords(records)

	m.mu.Lock()
	m.cursor = offset + uint64(len(records))
	m.status.State = models.SweepStateIdle
	m.status.LastError = ""
	m.status.FilesChecked += int64(report.Checked)
	m.status.Mismatches += int64(len(report.Mismatches))
	m.mu.Unlock()

	return uint64(len(records)) == m.batchSize
}

// prune drops records whose files are gone from disk.
func (m *Maintenance) prune(ctx *bgpool.Context) bool {
	records, err := m.ledger.Tracked(context.Background())
	if err != nil {
		m.failSweep(err)
		return false
	}

	pruned := int64(0)
	for _, rec := range records {
		if _, err := os.Stat(rec.Path); !os.IsNotExist(err) {
			continue
		}
		if err := m.ledger.Forget(context.Background(), rec.Path); err != nil {
			m.failSweep(err)
			return false
		}
		pruned++
	}

	if pruned > 0 {
		zap.S().Named("maintenance").Infow("pruned stale ledger records", "count", pruned)
		m.mu.Lock()
		m.status.Pruned += pruned
		m.mu.Unlock()
	}
	return pruned > 0
}

func (m *Maintenance) failSweep(err error) {
	zap.S().Named("maintenance").Errorw("maintenance pass failed", "error", err)
	m.mu.Lock()
	m.status.State = models.SweepStateError
	m.status.LastError = err.Error()
	m.mu.Unlock()
}
