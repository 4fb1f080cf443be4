// Package http implements the REST transport of the sync server.
//
// It wires chi routes for sync rounds, manual conflicts, entity snapshots
// and provider links. Tracing, access logging, gzip, CORS and bearer token
// checks are middleware applied before requests reach the service layer.
package http
