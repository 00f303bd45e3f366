// Package config defines the configuration structure for janitord.
//
// Configuration is organized into logical sections (Pool, Ledger, Server)
// with struct-tag defaults, loaded from a YAML file and JANITOR_* environment
// variables via viper.
//
// # Pool Configuration
//
//	┌─────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field           │ Default │ Description                            │
//	├─────────────────┼─────────┼────────────────────────────────────────┤
//	│ Workers         │ 4       │ Number of pool worker goroutines       │
//	│ SleepInterval   │ 10s     │ Back-off for tasks with no work        │
//	│ SleepJitter     │ 1s      │ Random extra added to waits            │
//	│ ScanLimit       │ 100     │ Selection scan cap per pass            │
//	└─────────────────┴─────────┴────────────────────────────────────────┘
//
// # Ledger Configuration
//
//	┌─────────────┬─────────┬────────────────────────────────────────────┐
//	│ Field       │ Default │ Description                                │
//	├─────────────┼─────────┼────────────────────────────────────────────┤
//	│ DataFolder  │ "."     │ Folder holding janitor.duckdb              │
//	│ BatchSize   │ 64      │ Files verified per sweep invocation        │
//	└─────────────┴─────────┴────────────────────────────────────────────┘
//
// # Server Configuration
//
//	┌──────────┬─────────┬────────────────────────────────────────┐
//	│ Field    │ Default │ Description                            │
//	├──────────┼─────────┼────────────────────────────────────────┤
//	│ Mode     │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort │ 7609    │ HTTP server listen port                │
//	└──────────┴─────────┴────────────────────────────────────────┘
//
// # Usage
//
//	cfg, err := config.Load("/etc/janitor/config.yaml")
//	if err != nil { ... }
//
// An empty path loads defaults plus environment only. Environment variables
// map section and field through underscores: JANITOR_POOL_WORKERS=8.
package config
