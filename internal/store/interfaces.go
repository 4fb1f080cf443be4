package store

import (
	"context"

	"github.com/MKhiriev/mint-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a driver error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// ChangeStorage is the authoritative, per-user change log and entity state.
type ChangeStorage interface {
	// ListChangesSince returns the changes recorded for entityType after the
	// server cursor since, ordered by recording order.
	ListChangesSince(ctx context.Context, userID int64, entityType models.EntityType, since int64) ([]models.Change, error)

	// LatestChanges returns, for each of entityIDs that has state, the change
	// that currently defines it.
	LatestChanges(ctx context.Context, userID int64, entityType models.EntityType, entityIDs []string) ([]models.Change, error)

	// ApplyRound records the round's resolved changes, updates entity state,
	// stores pending conflicts and the device cursor in one transaction.
	// It returns the server cursor assigned to the round.
	ApplyRound(ctx context.Context, round models.SyncRound) (int64, error)

	// ListEntityStates returns the current state of every entity of the type,
	// deleted ones included.
	ListEntityStates(ctx context.Context, userID int64, entityType models.EntityType) ([]models.EntityState, error)

	// ListPendingConflicts returns unresolved conflicts, oldest first.
	ListPendingConflicts(ctx context.Context, userID int64) ([]models.StoredConflict, error)

	// ResolveConflict marks the conflict resolved and re-records the chosen
	// change under a new cursor so every device receives it. When the entity
	// has meanwhile moved past both sides, the conflict is retired as
	// superseded and ErrConflictStale is returned.
	ResolveConflict(ctx context.Context, userID int64, conflictID string, resolution models.Resolution, requestedAt int64) (models.StoredConflict, int64, error)
}

// ProviderLinkRepository persists aggregator links. Access tokens are stored
// exactly as given; callers seal them first.
type ProviderLinkRepository interface {
	CreateLink(ctx context.Context, link models.ProviderLink) (models.ProviderLink, error)
	GetLink(ctx context.Context, userID, linkID int64) (models.ProviderLink, error)
	ListLinks(ctx context.Context) ([]models.ProviderLink, error)
	UpdateLinkCursor(ctx context.Context, linkID int64, cursor int64) error
}

// AppInfoRepository reports the health of the backing database.
type AppInfoRepository interface {
	Ping(ctx context.Context) error
}
