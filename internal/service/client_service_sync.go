package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/models"
)

type clientSyncService struct {
	local         store.LocalRepository
	adapter       adapter.ServerAdapter
	extractor     ChangeExtractor
	clientVersion string

	logger *logger.Logger
}

func NewClientSyncService(local store.LocalRepository, serverAdapter adapter.ServerAdapter, clientVersion string, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		local:         local,
		adapter:       serverAdapter,
		extractor:     NewChangeExtractor(local),
		clientVersion: clientVersion,
		logger:        logger,
	}
}

func (s *clientSyncService) SyncEntityType(ctx context.Context, entityType models.EntityType) (models.ClientSyncReport, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "clientSyncService.SyncEntityType").
		Str("entity_type", string(entityType)).
		Logger()

	deviceID, err := s.local.DeviceID(ctx)
	if err != nil {
		return models.ClientSyncReport{}, fmt.Errorf("get device id: %w", err)
	}

	extraction, err := s.extractor.Extract(ctx, entityType)
	if err != nil {
		return models.ClientSyncReport{}, fmt.Errorf("extract pending changes: %w", err)
	}
	if err = s.local.MarkSuperseded(ctx, extraction.Superseded); err != nil {
		return models.ClientSyncReport{}, fmt.Errorf("mark superseded changes: %w", err)
	}

	cursor, err := s.local.Cursor(ctx, entityType)
	if err != nil {
		return models.ClientSyncReport{}, fmt.Errorf("get local cursor: %w", err)
	}

	resp, err := s.adapter.Sync(ctx, models.SyncRequest{
		DeviceID:          deviceID,
		LastSyncTimestamp: cursor,
		EntityType:        entityType,
		Changes:           extraction.Changes,
		ClientVersion:     s.clientVersion,
	})
	if err != nil {
		log.Err(err).Int("pending", len(extraction.Changes)).Msg("sync request failed")
		return models.ClientSyncReport{}, mapAdapterError(err)
	}

	conflicted := make(map[string]struct{}, len(resp.Conflicts))
	conflictedIDs := make([]string, 0, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		conflicted[c.ClientChange.ID] = struct{}{}
		conflictedIDs = append(conflictedIDs, c.ClientChange.ID)
	}

	// a change coming back in the delta is settled, whatever its local status
	syncedIDs := make([]string, 0, len(extraction.Changes)+len(resp.Changes))
	for _, c := range extraction.Changes {
		if _, ok := conflicted[c.ID]; !ok {
			syncedIDs = append(syncedIDs, c.ID)
		}
	}
	for _, c := range resp.Changes {
		syncedIDs = append(syncedIDs, c.ID)
	}

	err = s.local.CompleteRound(ctx, models.ClientRound{
		EntityType:    entityType,
		Applied:       resp.Changes,
		SyncedIDs:     syncedIDs,
		ConflictedIDs: conflictedIDs,
		Cursor:        resp.Timestamp,
	})
	if err != nil {
		return models.ClientSyncReport{}, fmt.Errorf("complete local round: %w", err)
	}

	report := models.ClientSyncReport{
		EntityType: entityType,
		Sent:       len(extraction.Changes),
		Superseded: len(extraction.Superseded),
		Received:   len(resp.Changes),
		Conflicts:  len(resp.Conflicts),
		Cursor:     resp.Timestamp,
	}

	log.Info().
		Int("sent", report.Sent).
		Int("superseded", report.Superseded).
		Int("received", report.Received).
		Int("conflicts", report.Conflicts).
		Int64("cursor", report.Cursor).
		Msg("entity type synced")

	return report, nil
}

func (s *clientSyncService) SyncAll(ctx context.Context) ([]models.ClientSyncReport, error) {
	reports := make([]models.ClientSyncReport, 0, len(models.EntityTypes))

	var errs []error
	for _, entityType := range models.EntityTypes {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		report, err := s.SyncEntityType(ctx, entityType)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entityType, err))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}
