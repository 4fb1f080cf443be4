package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

type entityService struct {
	changes   store.ChangeStorage
	validator validators.Validator
	logger    *logger.Logger
}

func NewEntityService(changes store.ChangeStorage, validator validators.Validator, logger *logger.Logger) EntityService {
	return &entityService{
		changes:   changes,
		validator: validator,
		logger:    logger,
	}
}

// ListEntities returns the current state of every entity of the type,
// tombstones included, so a new device can start from a full snapshot.
func (e *entityService) ListEntities(ctx context.Context, userID int64, entityType models.EntityType) (models.EntityList, error) {
	if err := e.validator.Validate(ctx, entityType); err != nil {
		return models.EntityList{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	states, err := e.changes.ListEntityStates(ctx, userID, entityType)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityService.ListEntities").
			Int64("user_id", userID).
			Str("entity_type", string(entityType)).
			Msg("failed to list entity states")
		return models.EntityList{}, wrapStoreError(err)
	}

	return models.EntityList{
		EntityType: entityType,
		Entities:   states,
		Length:     len(states),
	}, nil
}
