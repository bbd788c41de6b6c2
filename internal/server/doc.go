// Package server binds the single listener and runs the HTTP server on it.
//
// The live query service is attached to the same [net/http.Server], so
// WebSocket upgrades and plain requests share one port. Run blocks until its
// context is cancelled and then shuts both down gracefully.
package server
