// Package services implements the business logic layer for the janitor
// daemon, sitting between the HTTP handlers and the ledger/store.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Maintenance ──► Ledger ──► Store
//	    │
//	    └─────────► Pool (recurring task registration)
//
// # Maintenance
//
// Maintenance registers two recurring tasks with the background pool:
//
//   - sweep: verifies one batch of tracked files per invocation against
//     their recorded sizes. While full batches keep coming it reports useful
//     work, so the pool re-runs it back-to-back; once the cursor wraps it
//     reports an idle pass and the pool backs off to its sleep interval.
//     The size of the in-flight batch is published through the pool counter
//     "files_in_check" and rolled back automatically when the batch ends.
//   - prune: drops ledger records whose files have disappeared from disk,
//     reporting useful work only when something was pruned.
//
// Both callables are invoked concurrently by pool workers and keep their
// shared state behind the service mutex. Progress is exposed as a
// models.SweepStatus snapshot for the status endpoint.
package services
