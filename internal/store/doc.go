// Package store implements the data access layer for the janitor daemon.
//
// Persistence uses DuckDB: the ledger is small, local, and read mostly in
// bulk sweeps, which suits an embedded analytical store with zero operational
// surface.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                        FileSizeStore                            │
//	│                             ▼                                   │
//	│                         file_sizes                              │
//	└─────────────────────────────────────────────────────────────────┘
//
// Tables created by local migrations (internal/store/migrations):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  file_sizes        │  Recorded on-disk size per tracked file     │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// Fixed statements live in queries.go; dynamic List/Count queries are built
// with squirrel and narrowed through ListOption values (path prefix,
// limit/offset).
//
// # Usage
//
//	db, err := store.NewDB(cfg.Ledger.DatabasePath())
//	if err != nil { ... }
//	if err := migrations.Run(ctx, db); err != nil { ... }
//	s := store.NewStore(db)
//
//	records, err := s.FileSize().List(ctx, store.WithPathPrefix("/data/parts/"))
package store
