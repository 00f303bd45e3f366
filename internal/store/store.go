package store

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
)

// querier is the subset of *sql.DB the entity stores need.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store provides access to all storage repositories.
type Store struct {
	db        *sql.DB
	fileSizes *FileSizeStore
}

// NewDB opens a DuckDB database at path. Use ":memory:" for an ephemeral one.
func NewDB(path string) (*sql.DB, error) {
	if path == ":memory:" {
		path = ""
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		fileSizes: NewFileSizeStore(db),
	}
}

func (s *Store) FileSize() *FileSizeStore {
	return s.fileSizes
}

func (s *Store) Close() error {
	return s.db.Close()
}
