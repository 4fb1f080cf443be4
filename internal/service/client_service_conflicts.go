package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/models"
)

type clientConflictService struct {
	local   store.LocalRepository
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewClientConflictService(local store.LocalRepository, serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientConflictService {
	return &clientConflictService{local: local, adapter: serverAdapter, logger: logger}
}

func (s *clientConflictService) List(ctx context.Context) (models.ConflictList, error) {
	list, err := s.adapter.ListConflicts(ctx)
	if err != nil {
		return models.ConflictList{}, mapAdapterError(err)
	}
	return list, nil
}

// Resolve settles the conflict on the server and releases the local change
// that was held back by it. The chosen change reaches local state in the
// next round.
func (s *clientConflictService) Resolve(ctx context.Context, conflictID string, resolution models.Resolution) (models.StoredConflict, error) {
	resolved, err := s.adapter.ResolveConflict(ctx, conflictID, models.ResolveConflictRequest{Resolution: resolution})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientConflictService.Resolve").Str("conflict_id", conflictID).Msg("failed to resolve conflict")
		return models.StoredConflict{}, mapAdapterError(err)
	}

	cursor, err := s.local.Cursor(ctx, resolved.EntityType)
	if err != nil {
		return models.StoredConflict{}, fmt.Errorf("get local cursor: %w", err)
	}

	err = s.local.CompleteRound(ctx, models.ClientRound{
		EntityType: resolved.EntityType,
		SyncedIDs:  []string{resolved.ClientChange.ID},
		Cursor:     cursor,
	})
	if err != nil {
		return models.StoredConflict{}, fmt.Errorf("release local change: %w", err)
	}

	return resolved, nil
}
