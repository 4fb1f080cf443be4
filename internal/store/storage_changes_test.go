package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func values(args []any) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

var changeRowColumns = []string{"id", "entity_id", "entity_type", "operation", "change_ts", "payload", "origin", "device_id"}

func sampleChange(id, entityID string, ts int64) models.Change {
	return models.Change{
		ID:         id,
		EntityID:   entityID,
		EntityType: models.EntityAccount,
		Operation:  models.OperationUpdate,
		Timestamp:  ts,
		Payload:    json.RawMessage(`{"name":"Checking"}`),
		Origin:     models.OriginClient,
		DeviceID:   "laptop",
	}
}

func TestChangeStorage_ListChangesSince(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	query, args, err := buildListChangesSinceQuery(7, models.EntityAccount, 100)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(values(args)...).
		WillReturnRows(sqlmock.NewRows(changeRowColumns).
			AddRow("c1", "acc-1", "account", "UPDATE", int64(150), []byte(`{"name":"Checking"}`), "CLIENT", "phone").
			AddRow("c2", "acc-2", "account", "DELETE", int64(160), nil, "PROVIDER", "provider:item-1"))

	changes, err := storage.ListChangesSince(testContext(), 7, models.EntityAccount, 100)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "c1", changes[0].ID)
	assert.JSONEq(t, `{"name":"Checking"}`, string(changes[0].Payload))
	assert.Equal(t, models.OperationDelete, changes[1].Operation)
	assert.Nil(t, changes[1].Payload)
	assert.Equal(t, models.OriginProvider, changes[1].Origin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ListChangesSince_RetryableError(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	query, _, err := buildListChangesSinceQuery(7, models.EntityAccount, 0)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})

	_, err = storage.ListChangesSince(testContext(), 7, models.EntityAccount, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestChangeStorage_LatestChanges_EmptyIDs(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	changes, err := storage.LatestChanges(testContext(), 7, models.EntityAccount, nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_LatestChanges(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	ids := []string{"acc-1", "acc-2"}
	query, args, err := buildLatestChangesQuery(7, models.EntityAccount, ids)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(values(args)...).
		WillReturnRows(sqlmock.NewRows(changeRowColumns).
			AddRow("c9", "acc-1", "account", "UPDATE", int64(500), []byte(`{}`), "CLIENT", "tablet"))

	changes, err := storage.LatestChanges(testContext(), 7, models.EntityAccount, ids)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "c9", changes[0].ID)
	assert.Equal(t, int64(500), changes[0].Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ApplyRound(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	accepted := sampleChange("c1", "acc-1", 900)
	deleted := sampleChange("c2", "acc-2", 950)
	deleted.Operation = models.OperationDelete
	deleted.Payload = nil

	conflict := models.Conflict{
		ID:           "conf-1",
		ClientChange: sampleChange("c3", "acc-3", 800),
		ServerChange: sampleChange("s3", "acc-3", 800),
		Resolution:   models.ResolutionManualRequired,
	}

	round := models.SyncRound{
		UserID:        7,
		DeviceID:      "laptop",
		ClientVersion: "1.2.0",
		EntityType:    models.EntityAccount,
		Resolved:      []models.Change{accepted, deleted},
		Conflicts:     []models.Conflict{conflict},
		RequestedAt:   1000,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// the store already holds a change recorded at 1000, so the cursor moves past it
	mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
		WithArgs(int64(7), int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(1001)))

	for _, c := range round.Resolved {
		mock.ExpectExec(regexp.QuoteMeta(insertChange)).
			WithArgs(values(changeArgs(7, c, 1001))...).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(upsertEntity)).
			WithArgs(values(entityArgs(7, c, 1000))...).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	mock.ExpectExec(regexp.QuoteMeta(insertConflict)).
		WithArgs("conf-1", int64(7), "account", "acc-3", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(supersedeOvertakenConflicts)).
		WithArgs(int64(7), "account", int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(upsertDevice)).
		WithArgs(int64(7), "laptop", "1.2.0", int64(1001), int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cursor, err := storage.ApplyRound(testContext(), round)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), cursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ApplyRound_DeleteStoresTombstone(t *testing.T) {
	deleted := sampleChange("c2", "acc-2", 950)
	deleted.Operation = models.OperationDelete

	args := entityArgs(7, deleted, 1000)
	assert.Nil(t, args[3], "payload of a deleted entity")
	assert.Equal(t, true, args[4])
}

func TestChangeStorage_ApplyRound_LockFailureIsRetryable(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).
		WithArgs(int64(7)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	mock.ExpectRollback()

	_, err := storage.ApplyRound(testContext(), models.SyncRound{UserID: 7, DeviceID: "d", EntityType: models.EntityAccount, RequestedAt: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, ErrAcquiringLock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ApplyRound_StatementFailureRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	change := sampleChange("c1", "acc-1", 900)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
		WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(1000)))
	mock.ExpectExec(regexp.QuoteMeta(insertChange)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
	mock.ExpectRollback()

	_, err := storage.ApplyRound(testContext(), models.SyncRound{
		UserID:      7,
		DeviceID:    "laptop",
		EntityType:  models.EntityAccount,
		Resolved:    []models.Change{change},
		RequestedAt: 1000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrRetryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var conflictRowColumns = []string{"id", "user_id", "entity_type", "entity_id", "client_change", "server_change", "status", "detected_at"}

func conflictRow(t *testing.T, rows *sqlmock.Rows, id string, client, server models.Change) *sqlmock.Rows {
	t.Helper()
	clientJSON, err := json.Marshal(client)
	require.NoError(t, err)
	serverJSON, err := json.Marshal(server)
	require.NoError(t, err)
	return rows.AddRow(id, int64(7), string(client.EntityType), client.EntityID, clientJSON, serverJSON, "PENDING", int64(1000))
}

func TestChangeStorage_ListPendingConflicts(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	client := sampleChange("c3", "acc-3", 800)
	server := sampleChange("s3", "acc-3", 800)

	mock.ExpectQuery(regexp.QuoteMeta(listPendingConflicts)).
		WithArgs(int64(7)).
		WillReturnRows(conflictRow(t, sqlmock.NewRows(conflictRowColumns), "conf-1", client, server))

	conflicts, err := storage.ListPendingConflicts(testContext(), 7)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	got := conflicts[0]
	assert.Equal(t, "conf-1", got.ID)
	assert.Equal(t, models.ConflictPending, got.Status)
	assert.Equal(t, models.ResolutionManualRequired, got.Resolution)
	assert.Equal(t, "c3", got.ClientChange.ID)
	assert.Equal(t, "s3", got.ServerChange.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ListPendingConflicts_BadJSON(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(listPendingConflicts)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(conflictRowColumns).
			AddRow("conf-1", int64(7), "account", "acc-3", []byte(`{`), []byte(`{}`), "PENDING", int64(1000)))

	_, err := storage.ListPendingConflicts(testContext(), 7)
	assert.ErrorIs(t, err, ErrDecodingPayload)
}

func TestChangeStorage_ResolveConflict(t *testing.T) {
	client := sampleChange("c3", "acc-3", 800)
	server := sampleChange("s3", "acc-3", 800)

	tests := []struct {
		name       string
		resolution models.Resolution
		chosen     models.Change
	}{
		{name: "client wins", resolution: models.ResolutionClientWin, chosen: client},
		{name: "server wins", resolution: models.ResolutionServerWin, chosen: server},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
				WithArgs(int64(7), int64(2000)).
				WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(2000)))
			mock.ExpectQuery(regexp.QuoteMeta(selectPendingConflictForUpdate)).
				WithArgs("conf-1", int64(7)).
				WillReturnRows(conflictRow(t, sqlmock.NewRows(conflictRowColumns), "conf-1", client, server))
			mock.ExpectQuery(regexp.QuoteMeta(selectEntityHeadForUpdate)).
				WithArgs(int64(7), "account", "acc-3").
				WillReturnRows(sqlmock.NewRows(entityHeadColumns).AddRow("s3", int64(800)))
			mock.ExpectExec(regexp.QuoteMeta(markConflictResolved)).
				WithArgs("conf-1", int64(7), string(tt.resolution), int64(2000)).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta(rerecordChange)).
				WithArgs(values(changeArgs(7, tt.chosen, 2000))...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta(upsertEntity)).
				WithArgs(values(entityArgs(7, tt.chosen, 2000))...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			resolved, cursor, err := storage.ResolveConflict(testContext(), 7, "conf-1", tt.resolution, 2000)
			require.NoError(t, err)
			assert.Equal(t, int64(2000), cursor)
			assert.Equal(t, models.ConflictResolved, resolved.Status)
			assert.Equal(t, tt.resolution, resolved.Resolution)
			require.NotNil(t, resolved.ResolvedAt)
			assert.Equal(t, int64(2000), *resolved.ResolvedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

var entityHeadColumns = []string{"change_id", "change_ts"}

func TestChangeStorage_ResolveConflict_Stale(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	client := sampleChange("c3", "acc-3", 800)
	server := sampleChange("s3", "acc-3", 800)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
		WithArgs(int64(7), int64(2000)).
		WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(2000)))
	mock.ExpectQuery(regexp.QuoteMeta(selectPendingConflictForUpdate)).
		WithArgs("conf-1", int64(7)).
		WillReturnRows(conflictRow(t, sqlmock.NewRows(conflictRowColumns), "conf-1", client, server))
	// после конфликта другое устройство записало более новое изменение
	mock.ExpectQuery(regexp.QuoteMeta(selectEntityHeadForUpdate)).
		WithArgs(int64(7), "account", "acc-3").
		WillReturnRows(sqlmock.NewRows(entityHeadColumns).AddRow("d3", int64(1000)))
	mock.ExpectExec(regexp.QuoteMeta(markConflictSuperseded)).
		WithArgs("conf-1", int64(7), int64(2000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, cursor, err := storage.ResolveConflict(testContext(), 7, "conf-1", models.ResolutionClientWin, 2000)
	assert.ErrorIs(t, err, ErrConflictStale)
	assert.Zero(t, cursor)
	// neither side is re-recorded and the entity state is left alone
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ResolveConflict_MissingEntityRowIsNotStale(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	client := sampleChange("c3", "acc-3", 800)
	server := sampleChange("s3", "acc-3", 800)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
		WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(2000)))
	mock.ExpectQuery(regexp.QuoteMeta(selectPendingConflictForUpdate)).
		WillReturnRows(conflictRow(t, sqlmock.NewRows(conflictRowColumns), "conf-1", client, server))
	mock.ExpectQuery(regexp.QuoteMeta(selectEntityHeadForUpdate)).
		WillReturnRows(sqlmock.NewRows(entityHeadColumns))
	mock.ExpectExec(regexp.QuoteMeta(markConflictResolved)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(rerecordChange)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertEntity)).
		WithArgs(values(entityArgs(7, server, 2000))...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resolved, _, err := storage.ResolveConflict(testContext(), 7, "conf-1", models.ResolutionServerWin, 2000)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictResolved, resolved.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ResolveConflict_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(acquireUserLock)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(nextRoundCursor)).
		WillReturnRows(sqlmock.NewRows([]string{"greatest"}).AddRow(int64(2000)))
	mock.ExpectQuery(regexp.QuoteMeta(selectPendingConflictForUpdate)).
		WithArgs("missing", int64(7)).
		WillReturnRows(sqlmock.NewRows(conflictRowColumns))
	mock.ExpectRollback()

	_, _, err := storage.ResolveConflict(testContext(), 7, "missing", models.ResolutionClientWin, 2000)
	assert.ErrorIs(t, err, ErrConflictNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ResolveConflict_UnsupportedResolution(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	_, _, err := storage.ResolveConflict(testContext(), 7, "conf-1", models.ResolutionManualRequired, 2000)
	assert.ErrorIs(t, err, ErrUnsupportedResolution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeStorage_ListEntityStates(t *testing.T) {
	db, mock := newTestDB(t)
	storage := NewChangeStorage(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(listEntityStates)).
		WithArgs(int64(7), "account").
		WillReturnRows(sqlmock.NewRows([]string{"entity_type", "entity_id", "payload", "deleted", "change_id", "change_ts"}).
			AddRow("account", "acc-1", []byte(`{"name":"Checking"}`), false, "c1", int64(900)).
			AddRow("account", "acc-2", nil, true, "c2", int64(950)))

	states, err := storage.ListEntityStates(testContext(), 7, models.EntityAccount)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.False(t, states[0].Deleted)
	assert.True(t, states[1].Deleted)
	assert.Nil(t, states[1].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}
