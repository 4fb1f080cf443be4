// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/models"
)

// changeStorage is the PostgreSQL implementation of [ChangeStorage].
//
// Every write path takes a transaction-scoped advisory lock on the user id,
// so rounds of one user are serialized across server instances while rounds
// of different users proceed in parallel.
type changeStorage struct {
	*DB
	logger *logger.Logger
}

func NewChangeStorage(db *DB, logger *logger.Logger) ChangeStorage {
	return &changeStorage{
		DB:     db,
		logger: logger,
	}
}

func (s *changeStorage) ListChangesSince(ctx context.Context, userID int64, entityType models.EntityType, since int64) ([]models.Change, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListChangesSinceQuery(userID, entityType, since)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.ListChangesSince").Int64("user_id", userID).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "changeStorage.ListChangesSince").
			Int64("user_id", userID).
			Str("entity_type", string(entityType)).
			Int64("since", since).
			Msg("failed to execute query for changes since cursor")
		return nil, s.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	changes, err := scanChanges(rows)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.ListChangesSince").Int64("user_id", userID).Msg("failed to scan changes")
		return nil, err
	}

	return changes, nil
}

func (s *changeStorage) LatestChanges(ctx context.Context, userID int64, entityType models.EntityType, entityIDs []string) ([]models.Change, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	query, args, err := buildLatestChangesQuery(userID, entityType, entityIDs)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.LatestChanges").Int64("user_id", userID).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "changeStorage.LatestChanges").
			Int64("user_id", userID).
			Int("entity_ids", len(entityIDs)).
			Msg("failed to execute query for latest changes")
		return nil, s.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	changes, err := scanChanges(rows)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.LatestChanges").Int64("user_id", userID).Msg("failed to scan changes")
		return nil, err
	}

	return changes, nil
}

// ApplyRound writes the round in one transaction:
//  1. lock the user,
//  2. pick the round cursor,
//  3. append resolved changes to the log (already known ids are skipped),
//  4. move entity state forward where the change is not older,
//  5. store conflicts as pending,
//  6. retire pending conflicts the new state has overtaken,
//  7. remember the device cursor.
func (s *changeStorage) ApplyRound(ctx context.Context, round models.SyncRound) (int64, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "changeStorage.ApplyRound").
		Int64("user_id", round.UserID).
		Str("device_id", round.DeviceID).
		Str("entity_type", string(round.EntityType)).
		Logger()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return 0, s.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	cursor, err := s.lockAndNextCursor(ctx, tx, round.UserID, round.RequestedAt)
	if err != nil {
		log.Err(err).Msg("failed to reserve round cursor")
		return 0, err
	}

	for i, change := range round.Resolved {
		if _, err = tx.ExecContext(ctx, insertChange, changeArgs(round.UserID, change, cursor)...); err != nil {
			log.Err(err).Int("iteration", i).Str("change_id", change.ID).Msg("failed to record change")
			return 0, s.wrap(ErrExecutingStatement, err)
		}

		if _, err = tx.ExecContext(ctx, upsertEntity, entityArgs(round.UserID, change, round.RequestedAt)...); err != nil {
			log.Err(err).Int("iteration", i).Str("entity_id", change.EntityID).Msg("failed to update entity state")
			return 0, s.wrap(ErrExecutingStatement, err)
		}
	}

	for i, conflict := range round.Conflicts {
		clientChange, marshalErr := json.Marshal(conflict.ClientChange)
		if marshalErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrEncodingPayload, marshalErr)
		}
		serverChange, marshalErr := json.Marshal(conflict.ServerChange)
		if marshalErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrEncodingPayload, marshalErr)
		}

		_, err = tx.ExecContext(ctx, insertConflict,
			conflict.ID,
			round.UserID,
			string(conflict.ClientChange.EntityType),
			conflict.ClientChange.EntityID,
			string(clientChange),
			string(serverChange),
			round.RequestedAt,
		)
		if err != nil {
			log.Err(err).Int("iteration", i).Str("conflict_id", conflict.ID).Msg("failed to store conflict")
			return 0, s.wrap(ErrExecutingStatement, err)
		}
	}

	if len(round.Resolved) > 0 {
		result, execErr := tx.ExecContext(ctx, supersedeOvertakenConflicts, round.UserID, string(round.EntityType), round.RequestedAt)
		if execErr != nil {
			log.Err(execErr).Msg("failed to retire overtaken conflicts")
			return 0, s.wrap(ErrExecutingStatement, execErr)
		}
		if retired, _ := result.RowsAffected(); retired > 0 {
			log.Info().Int64("conflicts", retired).Msg("overtaken conflicts retired")
		}
	}

	if _, err = tx.ExecContext(ctx, upsertDevice, round.UserID, round.DeviceID, round.ClientVersion, cursor, round.RequestedAt); err != nil {
		log.Err(err).Msg("failed to store device cursor")
		return 0, s.wrap(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return 0, s.wrap(ErrCommitingTransaction, err)
	}

	log.Debug().
		Int("resolved", len(round.Resolved)).
		Int("conflicts", len(round.Conflicts)).
		Int64("cursor", cursor).
		Msg("round applied")

	return cursor, nil
}

func (s *changeStorage) ListEntityStates(ctx context.Context, userID int64, entityType models.EntityType) ([]models.EntityState, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, listEntityStates, userID, string(entityType))
	if err != nil {
		log.Err(err).
			Str("func", "changeStorage.ListEntityStates").
			Int64("user_id", userID).
			Str("entity_type", string(entityType)).
			Msg("failed to execute query for entity states")
		return nil, s.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	states, err := scanEntityStates(rows)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.ListEntityStates").Int64("user_id", userID).Msg("failed to scan entity states")
		return nil, err
	}

	return states, nil
}

func (s *changeStorage) ListPendingConflicts(ctx context.Context, userID int64) ([]models.StoredConflict, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, listPendingConflicts, userID)
	if err != nil {
		log.Err(err).Str("func", "changeStorage.ListPendingConflicts").Int64("user_id", userID).Msg("failed to execute query for pending conflicts")
		return nil, s.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	conflicts := make([]models.StoredConflict, 0)
	for rows.Next() {
		conflict, scanErr := scanConflict(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "changeStorage.ListPendingConflicts").Int64("user_id", userID).Msg("failed to scan conflict row")
			return nil, scanErr
		}
		conflicts = append(conflicts, conflict)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "changeStorage.ListPendingConflicts").Int64("user_id", userID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return conflicts, nil
}

func (s *changeStorage) ResolveConflict(ctx context.Context, userID int64, conflictID string, resolution models.Resolution, requestedAt int64) (models.StoredConflict, int64, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "changeStorage.ResolveConflict").
		Int64("user_id", userID).
		Str("conflict_id", conflictID).
		Logger()

	if resolution != models.ResolutionClientWin && resolution != models.ResolutionServerWin {
		return models.StoredConflict{}, 0, fmt.Errorf("%w: %s", ErrUnsupportedResolution, resolution)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return models.StoredConflict{}, 0, s.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	cursor, err := s.lockAndNextCursor(ctx, tx, userID, requestedAt)
	if err != nil {
		log.Err(err).Msg("failed to reserve cursor")
		return models.StoredConflict{}, 0, err
	}

	conflict, err := scanConflict(tx.QueryRowContext(ctx, selectPendingConflictForUpdate, conflictID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredConflict{}, 0, ErrConflictNotFound
	}
	if err != nil {
		log.Err(err).Msg("failed to load pending conflict")
		return models.StoredConflict{}, 0, err
	}

	overtaken, err := s.entityOvertakes(ctx, tx, userID, conflict)
	if err != nil {
		log.Err(err).Msg("failed to read entity state")
		return models.StoredConflict{}, 0, err
	}
	if overtaken {
		// the entity moved past both sides: applying either would roll it back
		if _, err = tx.ExecContext(ctx, markConflictSuperseded, conflictID, userID, requestedAt); err != nil {
			log.Err(err).Msg("failed to mark conflict superseded")
			return models.StoredConflict{}, 0, s.wrap(ErrExecutingStatement, err)
		}
		if err = tx.Commit(); err != nil {
			log.Err(err).Msg("failed to commit transaction")
			return models.StoredConflict{}, 0, s.wrap(ErrCommitingTransaction, err)
		}
		log.Warn().Msg("conflict overtaken by a newer change")
		return models.StoredConflict{}, 0, ErrConflictStale
	}

	chosen := conflict.ServerChange
	if resolution == models.ResolutionClientWin {
		chosen = conflict.ClientChange
	}

	if _, err = tx.ExecContext(ctx, markConflictResolved, conflictID, userID, string(resolution), requestedAt); err != nil {
		log.Err(err).Msg("failed to mark conflict resolved")
		return models.StoredConflict{}, 0, s.wrap(ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, rerecordChange, changeArgs(userID, chosen, cursor)...); err != nil {
		log.Err(err).Str("change_id", chosen.ID).Msg("failed to record chosen change")
		return models.StoredConflict{}, 0, s.wrap(ErrExecutingStatement, err)
	}

	// both sides share a timestamp, so the chosen one wins the tie here and on
	// every device
	if _, err = tx.ExecContext(ctx, upsertEntity, entityArgs(userID, chosen, requestedAt)...); err != nil {
		log.Err(err).Str("entity_id", chosen.EntityID).Msg("failed to update entity state")
		return models.StoredConflict{}, 0, s.wrap(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return models.StoredConflict{}, 0, s.wrap(ErrCommitingTransaction, err)
	}

	conflict.Status = models.ConflictResolved
	conflict.Resolution = resolution
	conflict.ResolvedAt = &requestedAt

	return conflict, cursor, nil
}

// entityOvertakes reports whether the entity of conflict holds a third change
// strictly newer than both sides. The state row is locked until the end of tx.
func (s *changeStorage) entityOvertakes(ctx context.Context, tx *sql.Tx, userID int64, conflict models.StoredConflict) (bool, error) {
	var (
		changeID string
		changeTS int64
	)
	err := tx.QueryRowContext(ctx, selectEntityHeadForUpdate, userID, string(conflict.EntityType), conflict.EntityID).Scan(&changeID, &changeTS)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.wrap(ErrScanningRow, err)
	}

	if changeID == conflict.ClientChange.ID || changeID == conflict.ServerChange.ID {
		return false, nil
	}
	return changeTS > max(conflict.ClientChange.Timestamp, conflict.ServerChange.Timestamp), nil
}

func (s *changeStorage) lockAndNextCursor(ctx context.Context, tx *sql.Tx, userID, requestedAt int64) (int64, error) {
	if _, err := tx.ExecContext(ctx, acquireUserLock, userID); err != nil {
		return 0, s.wrap(ErrAcquiringLock, err)
	}

	var cursor int64
	if err := tx.QueryRowContext(ctx, nextRoundCursor, userID, requestedAt).Scan(&cursor); err != nil {
		return 0, s.wrap(ErrExecutingQuery, err)
	}

	return cursor, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChanges(rows *sql.Rows) ([]models.Change, error) {
	changes := make([]models.Change, 0)

	for rows.Next() {
		var (
			change  models.Change
			payload []byte
		)
		err := rows.Scan(
			&change.ID,
			&change.EntityID,
			&change.EntityType,
			&change.Operation,
			&change.Timestamp,
			&payload,
			&change.Origin,
			&change.DeviceID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if len(payload) > 0 {
			change.Payload = payload
		}

		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return changes, nil
}

func scanEntityStates(rows *sql.Rows) ([]models.EntityState, error) {
	states := make([]models.EntityState, 0)

	for rows.Next() {
		var (
			state   models.EntityState
			payload []byte
		)
		if err := rows.Scan(&state.EntityType, &state.EntityID, &payload, &state.Deleted, &state.ChangeID, &state.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if len(payload) > 0 {
			state.Payload = payload
		}

		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return states, nil
}

func scanConflict(row rowScanner) (models.StoredConflict, error) {
	var (
		conflict     models.StoredConflict
		clientChange []byte
		serverChange []byte
	)

	err := row.Scan(
		&conflict.ID,
		&conflict.UserID,
		&conflict.EntityType,
		&conflict.EntityID,
		&clientChange,
		&serverChange,
		&conflict.Status,
		&conflict.DetectedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return conflict, err
	}
	if err != nil {
		return conflict, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal(clientChange, &conflict.ClientChange); err != nil {
		return conflict, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
	}
	if err = json.Unmarshal(serverChange, &conflict.ServerChange); err != nil {
		return conflict, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
	}
	conflict.Resolution = models.ResolutionManualRequired

	return conflict, nil
}

func changeArgs(userID int64, change models.Change, recordedAt int64) []any {
	return []any{
		userID,
		change.ID,
		string(change.EntityType),
		change.EntityID,
		string(change.Operation),
		change.Timestamp,
		payloadArg(change.Payload),
		string(change.Origin),
		change.DeviceID,
		recordedAt,
	}
}

func entityArgs(userID int64, change models.Change, updatedAt int64) []any {
	payload := payloadArg(change.Payload)
	if change.IsDelete() {
		payload = nil
	}

	return []any{
		userID,
		string(change.EntityType),
		change.EntityID,
		payload,
		change.IsDelete(),
		change.ID,
		change.Timestamp,
		updatedAt,
	}
}

// payloadArg turns an absent payload into SQL NULL.
func payloadArg(payload json.RawMessage) any {
	if len(payload) == 0 {
		return nil
	}
	return string(payload)
}
