// Package server provides the HTTP server for the janitord local API.
//
// The server uses the Gin web framework with zap request logging and panic
// recovery middleware. Two modes are supported:
//
//   - dev:  Gin debug mode
//   - prod: Gin release mode
//
// The zap request logging and recovery middleware are installed in both modes.
//
// # Lifecycle
//
// Creation registers handlers under /api/v1 via a callback:
//
//	srv, err := server.NewServer(cfg.Server, handler.Register)
//
// Start blocks until the listener fails or the context is canceled; on
// cancellation the server drains in-flight requests for up to five seconds
// before returning.
package server
