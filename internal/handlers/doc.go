// Package handlers implements the janitord local API endpoints.
//
// Handlers translate between HTTP and the services layer: they parse query
// parameters, call into the Maintenance service or the ledger, and map
// models to api/v1 payloads. No business logic lives here.
//
//	┌──────────────────────┬────────────────────────────────────────────┐
//	│ Route                │ Purpose                                    │
//	├──────────────────────┼────────────────────────────────────────────┤
//	│ GET  /status         │ Sweep progress + live files_in_check       │
//	│ GET  /counters/:name │ One pool counter snapshot                  │
//	│ GET  /ledger/files   │ Tracked files (prefix filter, pagination)  │
//	│ POST /ledger/check   │ Synchronous full verification pass         │
//	└──────────────────────┴────────────────────────────────────────────┘
package handlers
