package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/mint-sync/models"
)

// authoritative store (PostgreSQL)
const (
	acquireUserLock = `SELECT pg_advisory_xact_lock($1);`

	// nextRoundCursor keeps per-user cursors strictly increasing even when
	// the server clock goes backwards.
	nextRoundCursor = `SELECT GREATEST($2::BIGINT, COALESCE(MAX(recorded_at), 0) + 1)
		FROM sync_changes
		WHERE user_id = $1;`

	insertChange = `INSERT INTO sync_changes (
			user_id, id, entity_type, entity_id, operation, change_ts, payload, origin, device_id, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, id) DO NOTHING;`

	// rerecordChange moves an existing change to a new cursor so every device
	// receives it again.
	rerecordChange = `INSERT INTO sync_changes (
			user_id, id, entity_type, entity_id, operation, change_ts, payload, origin, device_id, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, id) DO UPDATE SET recorded_at = EXCLUDED.recorded_at;`

	upsertEntity = `INSERT INTO sync_entities (
			user_id, entity_type, entity_id, payload, deleted, change_id, change_ts, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			deleted = EXCLUDED.deleted,
			change_id = EXCLUDED.change_id,
			change_ts = EXCLUDED.change_ts,
			updated_at = EXCLUDED.updated_at
		WHERE sync_entities.change_ts <= EXCLUDED.change_ts;`

	// supersedeOvertakenConflicts retires pending conflicts whose entity now
	// holds a third change strictly newer than both sides.
	supersedeOvertakenConflicts = `UPDATE sync_conflicts c
		SET status = 'SUPERSEDED', resolved_at = $3
		FROM sync_entities e
		WHERE c.user_id = $1 AND c.entity_type = $2 AND c.status = 'PENDING'
			AND e.user_id = c.user_id
			AND e.entity_type = c.entity_type
			AND e.entity_id = c.entity_id
			AND e.change_id <> c.client_change->>'id'
			AND e.change_id <> c.server_change->>'id'
			AND e.change_ts > GREATEST((c.client_change->>'timestamp')::BIGINT, (c.server_change->>'timestamp')::BIGINT);`

	selectEntityHeadForUpdate = `SELECT change_id, change_ts
		FROM sync_entities
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
		FOR UPDATE;`

	insertConflict = `INSERT INTO sync_conflicts (
			id, user_id, entity_type, entity_id, client_change, server_change, status, resolution, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, 'PENDING', 'MANUAL_REQUIRED', $7)
		ON CONFLICT (id) DO NOTHING;`

	upsertDevice = `INSERT INTO sync_devices (user_id, device_id, client_version, last_cursor, last_sync_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_id) DO UPDATE SET
			client_version = EXCLUDED.client_version,
			last_cursor = EXCLUDED.last_cursor,
			last_sync_at = EXCLUDED.last_sync_at;`

	selectPendingConflictForUpdate = `SELECT id, user_id, entity_type, entity_id, client_change, server_change, status, detected_at
		FROM sync_conflicts
		WHERE id = $1 AND user_id = $2 AND status = 'PENDING'
		FOR UPDATE;`

	markConflictResolved = `UPDATE sync_conflicts
		SET status = 'RESOLVED', resolution = $3, resolved_at = $4
		WHERE id = $1 AND user_id = $2;`

	markConflictSuperseded = `UPDATE sync_conflicts
		SET status = 'SUPERSEDED', resolved_at = $3
		WHERE id = $1 AND user_id = $2;`

	listPendingConflicts = `SELECT id, user_id, entity_type, entity_id, client_change, server_change, status, detected_at
		FROM sync_conflicts
		WHERE user_id = $1 AND status = 'PENDING'
		ORDER BY detected_at, id;`

	listEntityStates = `SELECT entity_type, entity_id, payload, deleted, change_id, change_ts
		FROM sync_entities
		WHERE user_id = $1 AND entity_type = $2
		ORDER BY entity_id;`

	createProviderLink = `INSERT INTO provider_links (user_id, item_id, institution, access_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, last_ingested_at, created_at;`

	getProviderLink = `SELECT id, user_id, item_id, institution, access_token, last_ingested_at, created_at
		FROM provider_links
		WHERE id = $1 AND user_id = $2;`

	listProviderLinks = `SELECT id, user_id, item_id, institution, access_token, last_ingested_at, created_at
		FROM provider_links
		ORDER BY id;`

	updateProviderLinkCursor = `UPDATE provider_links
		SET last_ingested_at = $2
		WHERE id = $1;`

	pingQuery = `SELECT 1;`
)

// client store (SQLite)
const (
	selectMeta = `SELECT value FROM client_meta WHERE key = ?;`
	insertMeta = `INSERT INTO client_meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING;`

	insertLocalChange = `INSERT INTO local_changes (
			id, entity_type, entity_id, operation, change_ts, payload, origin, device_id, status, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING;`

	// upsertLocalEntity applies a change when it is not older than the
	// current state. Ties go to the incoming change.
	upsertLocalEntity = `INSERT INTO local_entities (entity_type, entity_id, payload, deleted, change_id, change_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			payload = excluded.payload,
			deleted = excluded.deleted,
			change_id = excluded.change_id,
			change_ts = excluded.change_ts
		WHERE local_entities.change_ts <= excluded.change_ts;`

	// supersedeOvertakenLocalConflicts retires CONFLICT changes whose entity
	// now holds a strictly newer change from elsewhere.
	supersedeOvertakenLocalConflicts = `UPDATE local_changes
		SET status = 'SUPERSEDED'
		WHERE entity_type = ? AND status = 'CONFLICT'
			AND EXISTS (
				SELECT 1 FROM local_entities e
				WHERE e.entity_type = local_changes.entity_type
					AND e.entity_id = local_changes.entity_id
					AND e.change_id <> local_changes.id
					AND e.change_ts > local_changes.change_ts
			);`

	selectLocalPending = `SELECT id, entity_id, entity_type, operation, change_ts, payload, origin, device_id
		FROM local_changes
		WHERE entity_type = ? AND status = 'PENDING'
		ORDER BY change_ts, id;`

	selectLocalCursor = `SELECT cursor FROM sync_cursors WHERE entity_type = ?;`

	upsertLocalCursor = `INSERT INTO sync_cursors (entity_type, cursor, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT (entity_type) DO UPDATE SET cursor = excluded.cursor, synced_at = excluded.synced_at;`

	selectLocalEntities = `SELECT entity_type, entity_id, payload, deleted, change_id, change_ts
		FROM local_entities
		WHERE entity_type = ?
		ORDER BY entity_id;`

	countLocalByStatus = `SELECT status, COUNT(*) FROM local_changes GROUP BY status;`
)

var changeColumns = []string{
	"c.id", "c.entity_id", "c.entity_type", "c.operation", "c.change_ts", "c.payload", "c.origin", "c.device_id",
}

// buildListChangesSinceQuery selects the changes of one entity type
// recorded after the cursor, in recording order.
func buildListChangesSinceQuery(userID int64, entityType models.EntityType, since int64) (string, []any, error) {
	return sq.Select(changeColumns...).
		From("sync_changes c").
		Where(sq.Eq{"c.user_id": userID, "c.entity_type": string(entityType)}).
		Where(sq.Gt{"c.recorded_at": since}).
		OrderBy("c.recorded_at", "c.id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildLatestChangesQuery selects the change that currently defines each of
// the given entities.
func buildLatestChangesQuery(userID int64, entityType models.EntityType, entityIDs []string) (string, []any, error) {
	return sq.Select(changeColumns...).
		From("sync_entities e").
		Join("sync_changes c ON c.user_id = e.user_id AND c.id = e.change_id").
		Where(sq.Eq{"e.user_id": userID, "e.entity_type": string(entityType)}).
		Where(sq.Eq{"e.entity_id": entityIDs}).
		OrderBy("e.entity_id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildSetLocalStatusQuery moves the given local changes to status. Changes
// already marked SYNCED are left alone.
func buildSetLocalStatusQuery(status LocalChangeStatus, ids []string) (string, []any, error) {
	return sq.Update("local_changes").
		Set("status", string(status)).
		Where(sq.Eq{"id": ids}).
		Where(sq.NotEq{"status": string(LocalSynced)}).
		PlaceholderFormat(sq.Question).
		ToSql()
}
