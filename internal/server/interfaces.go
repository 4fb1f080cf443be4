package server

import "context"

// Server defines the lifecycle contract for the transports managed by this
// package.
type Server interface {
	// Run serves requests until ctx is done or a transport fails, then
	// gracefully shuts every transport down.
	Run(ctx context.Context) error
}

// transport is one listener owned by [Server].
type transport interface {
	// RunServer blocks until the transport stops.
	RunServer() error

	// Shutdown stops accepting requests and waits for in-flight ones
	// until ctx is done.
	Shutdown(ctx context.Context) error

	Name() string
}
