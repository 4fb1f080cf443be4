package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
)

const deviceIDKey = "device_id"

// localStatusBatch keeps each status update below SQLite's limit on bound
// variables. A bootstrap round can acknowledge the whole history at once.
const localStatusBatch = 500

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// localRepository is the SQLite implementation of [LocalRepository].
type localRepository struct {
	*DB
	logger *logger.Logger
	ids    *utils.UUIDGenerator
	now    func() time.Time
}

func NewLocalRepository(db *DB, logger *logger.Logger) LocalRepository {
	return &localRepository{
		DB:     db,
		logger: logger,
		ids:    utils.NewUUIDGenerator(),
		now:    time.Now,
	}
}

func (r *localRepository) DeviceID(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	var deviceID string
	err := r.DB.QueryRowContext(ctx, selectMeta, deviceIDKey).Scan(&deviceID)
	if err == nil {
		return deviceID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "localRepository.DeviceID").Msg("failed to read device id")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	// another process may insert first; the stored value wins
	if _, err = r.DB.ExecContext(ctx, insertMeta, deviceIDKey, r.ids.Generate()); err != nil {
		log.Err(err).Str("func", "localRepository.DeviceID").Msg("failed to store device id")
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = r.DB.QueryRowContext(ctx, selectMeta, deviceIDKey).Scan(&deviceID); err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return deviceID, nil
}

// RecordChange appends change as PENDING and applies it to local state.
func (r *localRepository) RecordChange(ctx context.Context, change models.Change) error {
	log := logger.FromContext(ctx).With().
		Str("func", "localRepository.RecordChange").
		Str("change_id", change.ID).
		Str("entity_type", string(change.EntityType)).
		Logger()

	if change.Origin == "" {
		change.Origin = models.OriginClient
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, insertLocalChange, localChangeArgs(change, LocalPending, r.now().UnixMilli())...); err != nil {
		log.Err(err).Msg("failed to append change")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, upsertLocalEntity, localEntityArgs(change)...); err != nil {
		log.Err(err).Msg("failed to apply change")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *localRepository) PendingChanges(ctx context.Context, entityType models.EntityType) ([]models.Change, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, selectLocalPending, string(entityType))
	if err != nil {
		log.Err(err).Str("func", "localRepository.PendingChanges").Str("entity_type", string(entityType)).Msg("failed to query pending changes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanChanges(rows)
}

func (r *localRepository) MarkSuperseded(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	log := logger.FromContext(ctx).With().Str("func", "localRepository.MarkSuperseded").Int("ids", len(ids)).Logger()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = setLocalStatus(ctx, tx, LocalSuperseded, ids); err != nil {
		log.Err(err).Msg("failed to mark changes superseded")
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *localRepository) Cursor(ctx context.Context, entityType models.EntityType) (int64, error) {
	var cursor int64
	err := r.DB.QueryRowContext(ctx, selectLocalCursor, string(entityType)).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localRepository.Cursor").Str("entity_type", string(entityType)).Msg("failed to read cursor")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return cursor, nil
}

// CompleteRound merges the server delta, settles the statuses of the
// submitted changes and stores the next cursor. Nothing is written unless
// all of it succeeds.
func (r *localRepository) CompleteRound(ctx context.Context, round models.ClientRound) error {
	log := logger.FromContext(ctx).With().
		Str("func", "localRepository.CompleteRound").
		Str("entity_type", string(round.EntityType)).
		Logger()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	now := r.now().UnixMilli()

	for i, change := range round.Applied {
		if _, err = tx.ExecContext(ctx, insertLocalChange, localChangeArgs(change, LocalSynced, now)...); err != nil {
			log.Err(err).Int("iteration", i).Str("change_id", change.ID).Msg("failed to append server change")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if _, err = tx.ExecContext(ctx, upsertLocalEntity, localEntityArgs(change)...); err != nil {
			log.Err(err).Int("iteration", i).Str("entity_id", change.EntityID).Msg("failed to apply server change")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	statuses := []struct {
		status LocalChangeStatus
		ids    []string
	}{
		{LocalSynced, round.SyncedIDs},
		{LocalConflict, round.ConflictedIDs},
	}
	for _, s := range statuses {
		if err = setLocalStatus(ctx, tx, s.status, s.ids); err != nil {
			log.Err(err).Str("status", string(s.status)).Int("ids", len(s.ids)).Msg("failed to update change statuses")
			return err
		}
	}

	// a conflict the server retired because the entity moved on is no
	// longer waiting for a decision
	if _, err = tx.ExecContext(ctx, supersedeOvertakenLocalConflicts, string(round.EntityType)); err != nil {
		log.Err(err).Msg("failed to release overtaken conflicts")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, upsertLocalCursor, string(round.EntityType), round.Cursor, now); err != nil {
		log.Err(err).Msg("failed to store cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *localRepository) ListEntities(ctx context.Context, entityType models.EntityType) ([]models.EntityState, error) {
	rows, err := r.DB.QueryContext(ctx, selectLocalEntities, string(entityType))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localRepository.ListEntities").Msg("failed to query local entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanEntityStates(rows)
}

func (r *localRepository) CountByStatus(ctx context.Context) (map[LocalChangeStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, countLocalByStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := map[LocalChangeStatus]int{}
	for rows.Next() {
		var (
			status LocalChangeStatus
			count  int
		)
		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counts, nil
}

func localChangeArgs(change models.Change, status LocalChangeStatus, recordedAt int64) []any {
	origin := change.Origin
	if origin == "" {
		origin = models.OriginClient
	}

	return []any{
		change.ID,
		string(change.EntityType),
		change.EntityID,
		string(change.Operation),
		change.Timestamp,
		payloadArg(change.Payload),
		string(origin),
		change.DeviceID,
		string(status),
		recordedAt,
	}
}

func localEntityArgs(change models.Change) []any {
	payload := payloadArg(change.Payload)
	if change.IsDelete() {
		payload = nil
	}

	return []any{
		string(change.EntityType),
		change.EntityID,
		payload,
		change.IsDelete(),
		change.ID,
		change.Timestamp,
	}
}

// setLocalStatus moves ids to status in batches of localStatusBatch.
func setLocalStatus(ctx context.Context, db execer, status LocalChangeStatus, ids []string) error {
	for batch := range slices.Chunk(ids, localStatusBatch) {
		query, args, err := buildSetLocalStatusQuery(status, batch)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}
