package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

type clientEntryService struct {
	local     store.LocalRepository
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time
	logger    *logger.Logger
}

func NewClientEntryService(local store.LocalRepository, validator validators.Validator, logger *logger.Logger) ClientEntryService {
	return &clientEntryService{
		local:     local,
		validator: validator,
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *clientEntryService) Record(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload json.RawMessage) (models.Change, error) {
	if entityID == "" && op == models.OperationCreate {
		entityID = s.ids.Generate()
	}

	deviceID, err := s.local.DeviceID(ctx)
	if err != nil {
		return models.Change{}, fmt.Errorf("get device id: %w", err)
	}

	change := models.Change{
		ID:         s.ids.Generate(),
		EntityID:   entityID,
		EntityType: entityType,
		Operation:  op,
		Timestamp:  s.now().UnixMilli(),
		Payload:    payload,
		Origin:     models.OriginClient,
		DeviceID:   deviceID,
	}

	if err = s.validator.Validate(ctx, change); err != nil {
		return models.Change{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err = s.local.RecordChange(ctx, change); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientEntryService.Record").Str("entity_id", entityID).Msg("failed to record change")
		return models.Change{}, fmt.Errorf("record change: %w", err)
	}

	return change, nil
}

func (s *clientEntryService) List(ctx context.Context, entityType models.EntityType) ([]models.EntityState, error) {
	if err := s.validator.Validate(ctx, entityType); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.local.ListEntities(ctx, entityType)
}

func (s *clientEntryService) Status(ctx context.Context) (models.ClientStatus, error) {
	deviceID, err := s.local.DeviceID(ctx)
	if err != nil {
		return models.ClientStatus{}, fmt.Errorf("get device id: %w", err)
	}

	counts, err := s.local.CountByStatus(ctx)
	if err != nil {
		return models.ClientStatus{}, fmt.Errorf("count changes: %w", err)
	}

	status := models.ClientStatus{
		DeviceID: deviceID,
		Counts:   make(map[string]int, len(counts)),
		Cursors:  make(map[models.EntityType]int64, len(models.EntityTypes)),
	}
	for k, v := range counts {
		status.Counts[string(k)] = v
	}
	for _, entityType := range models.EntityTypes {
		cursor, err := s.local.Cursor(ctx, entityType)
		if err != nil {
			return models.ClientStatus{}, fmt.Errorf("get cursor of %s: %w", entityType, err)
		}
		status.Cursors[entityType] = cursor
	}

	return status, nil
}
