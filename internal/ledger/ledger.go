// Package ledger tracks the expected on-disk sizes of a storage's data files
// and verifies that the files have not been truncated or grown behind the
// engine's back. It is a standalone utility: it shares nothing with the
// background pool beyond living in the same daemon.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/quarrydb/janitor/internal/models"
	"github.com/quarrydb/janitor/internal/store"
	srvErrors "github.com/quarrydb/janitor/pkg/errors"
)

const maxUpsertTries = 3

// Ledger records and verifies file sizes.
type Ledger struct {
	store *store.Store
	log   *zap.SugaredLogger
}

func New(st *store.Store) *Ledger {
	return &Ledger{
		store: st,
		log:   zap.S().Named("ledger"),
	}
}

// Update stats each path and records its current size. Store writes are
// retried briefly; a path that cannot be stat'ed fails the call.
func (l *Ledger) Update(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", path, err)
		}

		size := info.Size()
		op := func() (struct{}, error) {
			return struct{}{}, l.store.FileSize().Upsert(ctx, path, size)
		}
		if _, err := backoff.Retry(ctx, op, backoff.WithMaxTries(maxUpsertTries)); err != nil {
			return fmt.Errorf("failed to record size of %q: %w", path, err)
		}
	}
	return nil
}

// Check compares the on-disk size of each path against its record. Paths
// with no record pass: the ledger only vouches for what it has seen. Every
// mismatch is logged and reported; a missing file counts as a mismatch with
// actual size -1.
func (l *Ledger) Check(ctx context.Context, paths ...string) (models.CheckReport, error) {
	var report models.CheckReport

	for _, path := range paths {
		rec, err := l.store.FileSize().Get(ctx, path)
		if err != nil {
			var notTracked *srvErrors.FileNotTrackedError
			if errors.As(err, &notTracked) {
				continue
			}
			return report, err
		}

		report.Checked++
		if check, ok := l.checkRecord(*rec); !ok {
			report.Mismatches = append(report.Mismatches, check)
		}
	}
	return report, nil
}

// checkRecord stats one tracked file and compares sizes. A file that cannot
// be stat'ed reports actual size -1.
func (l *Ledger) checkRecord(rec models.FileRecord) (models.FileCheck, bool) {
	actual := int64(-1)
	if info, err := os.Stat(rec.Path); err == nil {
		actual = info.Size()
	}

	if actual != rec.Size {
		l.log.Errorw("size of file is wrong",
			"path", rec.Path, "size", actual, "expected", rec.Size)
		return models.FileCheck{
			Path:     rec.Path,
			Expected: rec.Size,
			Actual:   actual,
		}, false
	}
	return models.FileCheck{Path: rec.Path, Expected: rec.Size, Actual: actual, OK: true}, true
}

// CheckRecords verifies already-loaded records, avoiding a second store
// round-trip during batched sweeps.
func (l *Ledger) CheckRecords(records []models.FileRecord) models.CheckReport {
	var report models.CheckReport

	for _, rec := range records {
		report.Checked++
		if check, ok := l.checkRecord(rec); !ok {
			report.Mismatches = append(report.Mismatches, check)
		}
	}
	return report
}

// CheckAll verifies every tracked record.
func (l *Ledger) CheckAll(ctx context.Context) (models.CheckReport, error) {
	records, err := l.store.FileSize().List(ctx)
	if err != nil {
		return models.CheckReport{}, err
	}
	return l.CheckRecords(records), nil
}

// Forget drops the record for path.
func (l *Ledger) Forget(ctx context.Context, path string) error {
	return l.store.FileSize().Delete(ctx, path)
}

// Tracked lists recorded files.
func (l *Ledger) Tracked(ctx context.Context, opts ...store.ListOption) ([]models.FileRecord, error) {
	return l.store.FileSize().List(ctx, opts...)
}

// TrackedCount counts recorded files.
func (l *Ledger) TrackedCount(ctx context.Context, opts ...store.ListOption) (int, error) {
	return l.store.FileSize().Count(ctx, opts...)
}
