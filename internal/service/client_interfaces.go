package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/mint-sync/models"
)

// Extraction is the compacted set of pending local changes of one entity
// type.
type Extraction struct {
	// Changes holds one change per entity, ordered by timestamp.
	Changes []models.Change

	// Superseded are ids of pending changes folded into Changes.
	Superseded []string
}

// ChangeExtractor reads pending mutations from the local store.
type ChangeExtractor interface {
	Extract(ctx context.Context, entityType models.EntityType) (Extraction, error)
}

// ClientSyncService runs sync rounds from the device side.
type ClientSyncService interface {
	// SyncEntityType sends the pending changes of one entity type and merges
	// the server's answer into the local store.
	SyncEntityType(ctx context.Context, entityType models.EntityType) (models.ClientSyncReport, error)

	// SyncAll syncs every entity type in order. A failing type does not stop
	// the others; the errors are joined.
	SyncAll(ctx context.Context) ([]models.ClientSyncReport, error)
}

// ClientSyncJob periodically calls SyncAll in the background.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// ClientEntryService records local mutations and reads local state. It never
// talks to the server.
type ClientEntryService interface {
	// Record stores a mutation made on this device. An empty entityID is
	// generated for CREATE.
	Record(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload json.RawMessage) (models.Change, error)

	List(ctx context.Context, entityType models.EntityType) ([]models.EntityState, error)

	Status(ctx context.Context) (models.ClientStatus, error)
}

// ClientConflictService lists and settles pending conflicts on the server.
type ClientConflictService interface {
	List(ctx context.Context) (models.ConflictList, error)
	Resolve(ctx context.Context, conflictID string, resolution models.Resolution) (models.StoredConflict, error)
}
