package server

import (
	"context"
	"net/http"
)

// RealtimeService is a service that shares the HTTP listener, such as the
// live query hub.
type RealtimeService interface {
	// Name identifies the service in the listener binding.
	Name() string

	// Attach hooks the service into srv before it starts serving.
	Attach(srv *http.Server)

	// Shutdown stops the service and releases its connections.
	Shutdown(ctx context.Context) error
}
