// Package server runs the sync server's transports.
//
// It starts the HTTP and gRPC listeners that are configured and shuts all
// of them down gracefully when the run context ends or one of them fails.
package server
