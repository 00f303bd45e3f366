package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/quarrydb/janitor/internal/models"
	srvErrors "github.com/quarrydb/janitor/pkg/errors"
)

// FileSizeStore handles the file-size ledger records using DuckDB.
type FileSizeStore struct {
	db querier
}

// NewFileSizeStore creates a new file size store.
func NewFileSizeStore(db querier) *FileSizeStore {
	return &FileSizeStore{db: db}
}

// ListOption narrows or pages a List/Count query.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// WithPathPrefix restricts results to paths under prefix.
func WithPathPrefix(prefix string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Like{"path": prefix + "%"})
	}
}

// WithLimit caps the number of returned records.
func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

// WithOffset skips the first offset records.
func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// Get retrieves the record for path.
func (s *FileSizeStore) Get(ctx context.Context, path string) (*models.FileRecord, error) {
	row := s.db.QueryRowContext(ctx, queryGetFileSize, path)

	var rec models.FileRecord
	err := row.Scan(&rec.Path, &rec.Size, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewFileNotTrackedError(path)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert stores or updates the recorded size for path.
func (s *FileSizeStore) Upsert(ctx context.Context, path string, size int64) error {
	_, err := s.db.ExecContext(ctx, queryUpsertFileSize, path, size)
	return err
}

// Delete drops the record for path. Deleting an untracked path is not an error.
func (s *FileSizeStore) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteFileSize, path)
	return err
}

// List returns tracked records ordered by path.
func (s *FileSizeStore) List(ctx context.Context, opts ...ListOption) ([]models.FileRecord, error) {
	builder := sq.Select("path", "size", "created_at", "updated_at").
		From("file_sizes").
		OrderBy("path")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		var rec models.FileRecord
		if err := rows.Scan(&rec.Path, &rec.Size, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of tracked records.
func (s *FileSizeStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("file_sizes")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
