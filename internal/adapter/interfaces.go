// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the outbound HTTP clients: [ServerAdapter], used by
// the CLI client to talk to the sync server, and [ProviderClient], used by
// the server to pull account and transaction snapshots from the aggregator.
//
// Non-2xx responses are mapped to the sentinel errors in errors.go so callers
// can use [errors.Is] without looking at status codes.
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/mint-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ServerAdapter is the client side of the sync server API.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)

	// Token returns the stored bearer token or "".
	Token() string

	// Sync runs one round: POST /api/sync.
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// ListConflicts returns pending manual conflicts of the token's user.
	ListConflicts(ctx context.Context) (models.ConflictList, error)

	// ResolveConflict picks the side of a pending conflict.
	ResolveConflict(ctx context.Context, conflictID string, req models.ResolveConflictRequest) (models.StoredConflict, error)

	// Version returns the server's build information.
	Version(ctx context.Context) (models.VersionResponse, error)
}

// ProviderClient is the subset of the aggregator API the ingestion adapter
// consumes. Records are returned in the aggregator's own shape.
type ProviderClient interface {
	// ExchangePublicToken trades a short-lived public token from the link
	// flow for a long-lived access token.
	ExchangePublicToken(ctx context.Context, publicToken string) (models.ProviderItem, error)

	// GetAccounts returns the account snapshot of the item.
	GetAccounts(ctx context.Context, accessToken string) ([]models.ProviderAccount, error)

	// GetTransactions returns every transaction dated within [start, end],
	// following pagination until the reported total is reached.
	GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]models.ProviderTransaction, error)
}
