package store

import (
	"context"

	"github.com/MKhiriev/mint-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalChangeStatus is the sync state of a change in the client's log.
type LocalChangeStatus string

const (
	// LocalPending changes wait for the next round.
	LocalPending LocalChangeStatus = "PENDING"
	// LocalSynced changes were acknowledged or received from the server.
	LocalSynced LocalChangeStatus = "SYNCED"
	// LocalConflict changes await a manual decision on the server.
	LocalConflict LocalChangeStatus = "CONFLICT"
	// LocalSuperseded changes were folded into a later pending change of
	// the same entity, or were conflicts overtaken by a newer server change.
	// They are never sent.
	LocalSuperseded LocalChangeStatus = "SUPERSEDED"
)

// LocalRepository is the client's offline store: an append-only change log
// plus current-state tables.
type LocalRepository interface {
	// DeviceID returns the id generated for this installation on first use.
	DeviceID(ctx context.Context) (string, error)

	// RecordChange appends a local mutation and applies it to local state.
	RecordChange(ctx context.Context, change models.Change) error

	// PendingChanges lists unsent changes ordered by timestamp, then id.
	PendingChanges(ctx context.Context, entityType models.EntityType) ([]models.Change, error)

	// MarkSuperseded flags ids as folded into later changes.
	MarkSuperseded(ctx context.Context, ids []string) error

	// Cursor returns the server cursor stored by the last completed round.
	Cursor(ctx context.Context, entityType models.EntityType) (int64, error)

	// CompleteRound applies server changes, updates statuses and stores the
	// new cursor in one transaction.
	CompleteRound(ctx context.Context, round models.ClientRound) error

	// ListEntities returns the local state of every entity of the type.
	ListEntities(ctx context.Context, entityType models.EntityType) ([]models.EntityState, error)

	// CountByStatus returns how many changes are in each status.
	CountByStatus(ctx context.Context) (map[LocalChangeStatus]int, error)
}
