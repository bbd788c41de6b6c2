// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, identifier
// generation, HTTP response writing and HTTP client initialization.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// MasterCtxKey marks requests authenticated with the master key.
var MasterCtxKey = contextKey("master")

// WithMaster returns a copy of ctx marked as authenticated with the master
// key.
func WithMaster(ctx context.Context) context.Context {
	return context.WithValue(ctx, MasterCtxKey, true)
}

// IsMaster reports whether ctx was marked by WithMaster.
func IsMaster(ctx context.Context) bool {
	master, ok := ctx.Value(MasterCtxKey).(bool)
	return ok && master
}
