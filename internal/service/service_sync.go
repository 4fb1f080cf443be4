// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/events"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

// syncService is the sync orchestrator. One Synchronize call is one round
// for one device and one entity type.
type syncService struct {
	changes   store.ChangeStorage
	resolver  ConflictResolver
	validator validators.Validator
	locks     *UserLocks
	sink      events.Sink

	ids          *utils.UUIDGenerator
	now          func() time.Time
	roundTimeout time.Duration

	logger *logger.Logger
}

func NewSyncService(
	changes store.ChangeStorage,
	validator validators.Validator,
	locks *UserLocks,
	sink events.Sink,
	cfg config.Sync,
	logger *logger.Logger,
) SyncService {
	if sink == nil {
		sink = events.Nop{}
	}

	return &syncService{
		changes:      changes,
		resolver:     NewConflictResolver(),
		validator:    validator,
		locks:        locks,
		sink:         sink,
		ids:          utils.NewUUIDGenerator(),
		now:          time.Now,
		roundTimeout: cfg.RoundTimeout,
		logger:       logger,
	}
}

// Synchronize validates the request, then under the user's lock fetches the
// server side of the round, resolves it against the client side and applies
// the result in one store transaction.
//
// The server side is every change recorded after req.LastSyncTimestamp plus
// the change currently defining each entity the client touches, so a client
// with a stale cursor or a skewed clock is still compared against current
// state.
//
// Validation failures wrap [ErrValidation] and emit nothing. Every other
// failure emits sync.failed and leaves the store as it was.
func (s *syncService) Synchronize(ctx context.Context, userID int64, req models.SyncRequest) (resp models.SyncResponse, err error) {
	log := logger.FromContext(ctx).With().
		Str("func", "syncService.Synchronize").
		Int64("user_id", userID).
		Str("device_id", req.DeviceID).
		Str("entity_type", string(req.EntityType)).
		Logger()

	if err = s.validator.Validate(ctx, req); err != nil {
		log.Warn().Err(err).Msg("sync request rejected")
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if s.roundTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.roundTimeout)
		defer cancel()
	}

	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		log.Err(err).Msg("gave up waiting for user lock")
		return models.SyncResponse{}, fmt.Errorf("%w: waiting for user lock: %w", ErrSyncFailed, err)
	}
	defer unlock()

	clientChanges := stampChanges(req)
	started := s.now()
	event := events.Event{
		UserID:     userID,
		DeviceID:   req.DeviceID,
		EntityType: req.EntityType,
		Origin:     roundOrigin(clientChanges),
		Submitted:  len(clientChanges),
	}
	s.emit(ctx, event, events.KindSyncStarted, started)

	defer func() {
		if err != nil {
			event.Err = err
			event.Duration = s.now().Sub(started)
			s.emit(ctx, event, events.KindSyncFailed, s.now())
		}
	}()

	serverChanges, err := s.serverSide(ctx, userID, req, clientChanges)
	if err != nil {
		log.Err(err).Msg("failed to fetch server changes")
		return models.SyncResponse{}, wrapStoreError(err)
	}

	resolution, err := s.resolver.Resolve(ctx, clientChanges, serverChanges)
	if err != nil {
		log.Err(err).Msg("failed to resolve round")
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	for i := range resolution.Conflicts {
		resolution.Conflicts[i].ID = s.ids.Generate()
	}

	cursor, err := s.changes.ApplyRound(ctx, models.SyncRound{
		UserID:        userID,
		DeviceID:      req.DeviceID,
		ClientVersion: req.ClientVersion,
		EntityType:    req.EntityType,
		Resolved:      resolution.Resolved,
		Conflicts:     resolution.Conflicts,
		RequestedAt:   s.now().UnixMilli(),
	})
	if err != nil {
		log.Err(err).Msg("failed to apply round")
		return models.SyncResponse{}, wrapStoreError(err)
	}

	log.Info().
		Int("submitted", len(clientChanges)).
		Int("server_changes", len(serverChanges)).
		Int("accepted", resolution.Stats.Accepted).
		Int("client_wins", resolution.Stats.ClientWins).
		Int("server_wins", resolution.Stats.ServerWins).
		Int("manual", resolution.Stats.Manual).
		Int64("cursor", cursor).
		Msg("sync round applied")

	event.Resolved = len(resolution.Resolved)
	event.Conflicts = len(resolution.Conflicts)
	event.Cursor = cursor
	event.Duration = s.now().Sub(started)
	s.emit(ctx, event, events.KindSyncSucceeded, s.now())

	return models.SyncResponse{
		Success:    true,
		Timestamp:  cursor,
		Changes:    resolution.Resolved,
		Conflicts:  resolution.Conflicts,
		EntityType: req.EntityType,
	}, nil
}

// serverSide returns the delta since the client's cursor plus the current
// defining change of every entity the client touches.
func (s *syncService) serverSide(ctx context.Context, userID int64, req models.SyncRequest, clientChanges []models.Change) ([]models.Change, error) {
	delta, err := s.changes.ListChangesSince(ctx, userID, req.EntityType, req.LastSyncTimestamp)
	if err != nil {
		return nil, err
	}
	if len(clientChanges) == 0 {
		return delta, nil
	}

	entityIDs := make([]string, 0, len(clientChanges))
	touched := make(map[string]struct{}, len(clientChanges))
	for _, c := range clientChanges {
		if _, ok := touched[c.EntityID]; !ok {
			touched[c.EntityID] = struct{}{}
			entityIDs = append(entityIDs, c.EntityID)
		}
	}

	latest, err := s.changes.LatestChanges(ctx, userID, req.EntityType, entityIDs)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(delta))
	for _, c := range delta {
		known[c.ID] = struct{}{}
	}

	// current state goes first so a newer delta entry wins a timestamp tie
	serverChanges := make([]models.Change, 0, len(latest)+len(delta))
	for _, c := range latest {
		if _, ok := known[c.ID]; !ok {
			serverChanges = append(serverChanges, c)
		}
	}
	return append(serverChanges, delta...), nil
}

func (s *syncService) emit(ctx context.Context, event events.Event, kind events.Kind, at time.Time) {
	event.Kind = kind
	event.At = at
	s.sink.Emit(ctx, event)
}

// stampChanges copies the request's changes, defaulting the origin to CLIENT
// and attributing every change to the submitting device.
func stampChanges(req models.SyncRequest) []models.Change {
	changes := make([]models.Change, len(req.Changes))
	for i, c := range req.Changes {
		if c.Origin == "" {
			c.Origin = models.OriginClient
		}
		c.DeviceID = req.DeviceID
		changes[i] = c
	}
	return changes
}

func roundOrigin(changes []models.Change) models.Origin {
	if len(changes) > 0 {
		return changes[0].Origin
	}
	return models.OriginClient
}

// wrapStoreError keeps the store error in the chain and marks transient ones.
func wrapStoreError(err error) error {
	if errors.Is(err, store.ErrRetryable) {
		return fmt.Errorf("%w: %w", ErrRetryable, err)
	}
	return fmt.Errorf("%w: %w", ErrSyncFailed, err)
}
