package service

import (
	"context"

	"github.com/MKhiriev/mint-sync/models"
)

// ConflictResolver merges a client and a server change set of one round.
type ConflictResolver interface {
	Resolve(ctx context.Context, clientChanges, serverChanges []models.Change) (models.ConflictResolution, error)
}

// SyncService runs sync rounds against the authoritative store.
type SyncService interface {
	// Synchronize runs one round for one device and entity type. Either the
	// whole merged set is applied or nothing is.
	Synchronize(ctx context.Context, userID int64, req models.SyncRequest) (models.SyncResponse, error)
}

// ConflictService exposes pending manual conflicts and settles them.
type ConflictService interface {
	ListConflicts(ctx context.Context, userID int64) ([]models.StoredConflict, error)
	ResolveConflict(ctx context.Context, userID int64, conflictID string, req models.ResolveConflictRequest) (models.StoredConflict, error)
}

// EntityService returns current entity state, used to bootstrap new devices.
type EntityService interface {
	ListEntities(ctx context.Context, userID int64, entityType models.EntityType) (models.EntityList, error)
}

// IngestionService feeds aggregator data through the sync pipeline.
type IngestionService interface {
	Link(ctx context.Context, userID int64, req models.LinkRequest) (models.ProviderLink, error)
	Ingest(ctx context.Context, userID, linkID int64) (models.IngestionReport, error)
	IngestAll(ctx context.Context) error
}

type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.VersionResponse
	Health(ctx context.Context) error
}
