package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/mint-sync/internal/events"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

type conflictService struct {
	changes   store.ChangeStorage
	validator validators.Validator
	locks     *UserLocks
	sink      events.Sink
	now       func() time.Time
	logger    *logger.Logger
}

// NewConflictService shares locks with the sync orchestrator so a manual
// decision never interleaves with a round of the same user.
func NewConflictService(changes store.ChangeStorage, validator validators.Validator, locks *UserLocks, sink events.Sink, logger *logger.Logger) ConflictService {
	if sink == nil {
		sink = events.Nop{}
	}

	return &conflictService{
		changes:   changes,
		validator: validator,
		locks:     locks,
		sink:      sink,
		now:       time.Now,
		logger:    logger,
	}
}

func (c *conflictService) ListConflicts(ctx context.Context, userID int64) ([]models.StoredConflict, error) {
	conflicts, err := c.changes.ListPendingConflicts(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "conflictService.ListConflicts").Int64("user_id", userID).Msg("failed to list conflicts")
		return nil, wrapStoreError(err)
	}
	return conflicts, nil
}

// ResolveConflict applies the chosen side of a pending conflict. The chosen
// change is recorded under a new cursor, so every device picks it up in its
// next round. A conflict whose entity already holds a newer change is
// retired instead and ErrConflictStale is returned.
func (c *conflictService) ResolveConflict(ctx context.Context, userID int64, conflictID string, req models.ResolveConflictRequest) (models.StoredConflict, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "conflictService.ResolveConflict").
		Int64("user_id", userID).
		Str("conflict_id", conflictID).
		Logger()

	if conflictID == "" {
		return models.StoredConflict{}, fmt.Errorf("%w: empty conflict id", ErrValidation)
	}
	if err := c.validator.Validate(ctx, req); err != nil {
		return models.StoredConflict{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	unlock, err := c.locks.Lock(ctx, userID)
	if err != nil {
		return models.StoredConflict{}, fmt.Errorf("%w: waiting for user lock: %w", ErrSyncFailed, err)
	}
	defer unlock()

	resolved, cursor, err := c.changes.ResolveConflict(ctx, userID, conflictID, req.Resolution, c.now().UnixMilli())
	if errors.Is(err, store.ErrConflictNotFound) {
		log.Warn().Msg("conflict not found")
		return models.StoredConflict{}, ErrConflictNotFound
	}
	if errors.Is(err, store.ErrConflictStale) {
		log.Warn().Msg("conflict overtaken by a newer change")
		return models.StoredConflict{}, ErrConflictStale
	}
	if err != nil {
		log.Err(err).Msg("failed to resolve conflict")
		return models.StoredConflict{}, wrapStoreError(err)
	}

	log.Info().Str("resolution", string(req.Resolution)).Int64("cursor", cursor).Msg("conflict resolved")

	c.sink.Emit(ctx, events.Event{
		Kind:       events.KindConflictResolved,
		At:         c.now(),
		UserID:     userID,
		EntityType: resolved.EntityType,
		ConflictID: conflictID,
		Cursor:     cursor,
	})

	return resolved, nil
}
