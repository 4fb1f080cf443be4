package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/mock"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type clientSyncFixture struct {
	local  *mock.MockLocalRepository
	server *mock.MockServerAdapter
	svc    ClientSyncService
}

func newClientSyncFixture(t *testing.T) *clientSyncFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &clientSyncFixture{
		local:  mock.NewMockLocalRepository(ctrl),
		server: mock.NewMockServerAdapter(ctrl),
	}
	f.svc = NewClientSyncService(f.local, f.server, "1.2.0", logger.Nop())
	return f
}

func TestClientSync_SyncEntityType(t *testing.T) {
	f := newClientSyncFixture(t)

	pending := []models.Change{
		accountChange("p1", "a1", models.OperationCreate, 10),
		accountChange("p2", "a1", models.OperationUpdate, 20),
		accountChange("p3", "a2", models.OperationUpdate, 30),
	}
	fromServer := accountChange("s9", "a9", models.OperationCreate, 5)

	f.local.EXPECT().DeviceID(gomock.Any()).Return("laptop", nil)
	f.local.EXPECT().PendingChanges(gomock.Any(), models.EntityAccount).Return(pending, nil)
	f.local.EXPECT().MarkSuperseded(gomock.Any(), []string{"p1"}).Return(nil)
	f.local.EXPECT().Cursor(gomock.Any(), models.EntityAccount).Return(int64(400), nil)

	f.server.EXPECT().Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			assert.Equal(t, "laptop", req.DeviceID)
			assert.Equal(t, int64(400), req.LastSyncTimestamp)
			assert.Equal(t, "1.2.0", req.ClientVersion)
			require.Len(t, req.Changes, 2)
			assert.Equal(t, "p2", req.Changes[0].ID)
			// CREATE followed by UPDATE is still a CREATE
			assert.Equal(t, models.OperationCreate, req.Changes[0].Operation)
			assert.Equal(t, "p3", req.Changes[1].ID)

			return models.SyncResponse{
				Success:   true,
				Timestamp: 900,
				Changes:   []models.Change{req.Changes[0], fromServer},
				Conflicts: []models.Conflict{{
					ID:           "k1",
					ClientChange: req.Changes[1],
					ServerChange: accountChange("s3", "a2", models.OperationUpdate, 30),
					Resolution:   models.ResolutionManualRequired,
				}},
				EntityType: models.EntityAccount,
			}, nil
		})

	f.local.EXPECT().CompleteRound(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, round models.ClientRound) error {
			assert.Equal(t, models.EntityAccount, round.EntityType)
			assert.Equal(t, int64(900), round.Cursor)
			assert.Len(t, round.Applied, 2)
			assert.Equal(t, []string{"p2", "p2", "s9"}, round.SyncedIDs)
			assert.Equal(t, []string{"p3"}, round.ConflictedIDs)
			return nil
		})

	report, err := f.svc.SyncEntityType(context.Background(), models.EntityAccount)

	require.NoError(t, err)
	assert.Equal(t, models.ClientSyncReport{
		EntityType: models.EntityAccount,
		Sent:       2,
		Superseded: 1,
		Received:   2,
		Conflicts:  1,
		Cursor:     900,
	}, report)
}

func TestClientSync_ServerErrorKeepsLocalState(t *testing.T) {
	f := newClientSyncFixture(t)

	f.local.EXPECT().DeviceID(gomock.Any()).Return("laptop", nil)
	f.local.EXPECT().PendingChanges(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.local.EXPECT().MarkSuperseded(gomock.Any(), gomock.Any()).Return(nil)
	f.local.EXPECT().Cursor(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	f.server.EXPECT().Sync(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{}, fmt.Errorf("%w: database busy", adapter.ErrServiceUnavailable))

	_, err := f.svc.SyncEntityType(context.Background(), models.EntityGoal)

	assert.ErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, adapter.ErrServiceUnavailable)
}

func TestClientSync_LocalFailures(t *testing.T) {
	localErr := errors.New("database is locked")

	tests := []struct {
		name  string
		setup func(f *clientSyncFixture)
	}{
		{
			name: "device id",
			setup: func(f *clientSyncFixture) {
				f.local.EXPECT().DeviceID(gomock.Any()).Return("", localErr)
			},
		},
		{
			name: "pending changes",
			setup: func(f *clientSyncFixture) {
				f.local.EXPECT().DeviceID(gomock.Any()).Return("laptop", nil)
				f.local.EXPECT().PendingChanges(gomock.Any(), gomock.Any()).Return(nil, localErr)
			},
		},
		{
			name: "complete round",
			setup: func(f *clientSyncFixture) {
				f.local.EXPECT().DeviceID(gomock.Any()).Return("laptop", nil)
				f.local.EXPECT().PendingChanges(gomock.Any(), gomock.Any()).Return(nil, nil)
				f.local.EXPECT().MarkSuperseded(gomock.Any(), gomock.Any()).Return(nil)
				f.local.EXPECT().Cursor(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				f.server.EXPECT().Sync(gomock.Any(), gomock.Any()).Return(models.SyncResponse{Success: true, Timestamp: 1}, nil)
				f.local.EXPECT().CompleteRound(gomock.Any(), gomock.Any()).Return(localErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClientSyncFixture(t)
			tt.setup(f)

			_, err := f.svc.SyncEntityType(context.Background(), models.EntityBudget)
			assert.ErrorIs(t, err, localErr)
		})
	}
}

func TestClientSync_SyncAllContinuesPastFailures(t *testing.T) {
	f := newClientSyncFixture(t)

	f.local.EXPECT().DeviceID(gomock.Any()).Return("laptop", nil).Times(len(models.EntityTypes))
	f.local.EXPECT().PendingChanges(gomock.Any(), gomock.Any()).Return(nil, nil).Times(len(models.EntityTypes))
	f.local.EXPECT().MarkSuperseded(gomock.Any(), gomock.Any()).Return(nil).Times(len(models.EntityTypes))
	f.local.EXPECT().Cursor(gomock.Any(), gomock.Any()).Return(int64(0), nil).Times(len(models.EntityTypes))

	f.server.EXPECT().Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			if req.EntityType == models.EntityTransaction {
				return models.SyncResponse{}, fmt.Errorf("%w: boom", adapter.ErrInternalServerError)
			}
			return models.SyncResponse{Success: true, Timestamp: 10, EntityType: req.EntityType}, nil
		}).Times(len(models.EntityTypes))
	f.local.EXPECT().CompleteRound(gomock.Any(), gomock.Any()).Return(nil).Times(len(models.EntityTypes) - 1)

	reports, err := f.svc.SyncAll(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.Contains(t, err.Error(), "transaction")
	require.Len(t, reports, len(models.EntityTypes)-1)
	assert.Equal(t, models.EntityAccount, reports[0].EntityType)
	assert.Equal(t, models.EntityBudget, reports[1].EntityType)
}

func TestCompactPending(t *testing.T) {
	pending := []models.Change{
		accountChange("c1", "x", models.OperationCreate, 1),
		accountChange("c2", "y", models.OperationUpdate, 2),
		accountChange("c3", "x", models.OperationUpdate, 3),
		accountChange("c4", "y", models.OperationDelete, 4),
		accountChange("c5", "z", models.OperationCreate, 5),
		accountChange("c6", "z", models.OperationDelete, 6),
	}

	got := compactPending(pending)

	assert.Equal(t, []string{"c1", "c2", "c5"}, got.Superseded)
	require.Len(t, got.Changes, 3)
	assert.Equal(t, "c3", got.Changes[0].ID)
	assert.Equal(t, models.OperationCreate, got.Changes[0].Operation)
	assert.Equal(t, "c4", got.Changes[1].ID)
	assert.Equal(t, models.OperationDelete, got.Changes[1].Operation)
	assert.Equal(t, "c6", got.Changes[2].ID)
	assert.Equal(t, models.OperationDelete, got.Changes[2].Operation)
}

func TestCompactPending_Empty(t *testing.T) {
	got := compactPending(nil)
	assert.Empty(t, got.Changes)
	assert.Empty(t, got.Superseded)
}

func TestMapAdapterError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{in: adapter.ErrBadRequest, want: ErrValidation},
		{in: adapter.ErrUnauthorized, want: ErrTokenIsExpiredOrInvalid},
		{in: adapter.ErrForbidden, want: ErrTokenIsExpiredOrInvalid},
		{in: adapter.ErrNotFound, want: ErrConflictNotFound},
		{in: adapter.ErrConflict, want: ErrConflictStale},
		{in: adapter.ErrBadGateway, want: ErrProviderUnavailable},
		{in: adapter.ErrTransport, want: ErrRetryable},
		{in: adapter.ErrTooManyRequests, want: ErrRetryable},
		{in: adapter.ErrGatewayTimeout, want: ErrRetryable},
		{in: adapter.ErrInternalServerError, want: ErrSyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.in.Error(), func(t *testing.T) {
			err := mapAdapterError(fmt.Errorf("%w: details", tt.in))
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.in)
		})
	}

	assert.NoError(t, mapAdapterError(nil))
}
