package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubAuth struct{}

func (stubAuth) ParseToken(_ context.Context, token string) (models.Token, error) {
	if token != "good" {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return models.Token{UserID: 7}, nil
}

type stubSync struct {
	gotUser int64
	gotReq  models.SyncRequest
	err     error
}

func (s *stubSync) Synchronize(_ context.Context, userID int64, req models.SyncRequest) (models.SyncResponse, error) {
	s.gotUser, s.gotReq = userID, req
	if s.err != nil {
		return models.SyncResponse{}, s.err
	}
	return models.SyncResponse{Success: true, Timestamp: 1234, EntityType: req.EntityType, Changes: req.Changes}, nil
}

func startServer(t *testing.T, syncSvc *stubSync) *SyncClient {
	t.Helper()

	h := NewHandler(&service.Services{SyncService: syncSvc, AuthService: stubAuth{}}, logger.Nop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(h.ServerOptions()...)
	h.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewSyncClient(conn)
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), authorizationKey, "Bearer "+token)
}

func TestSynchronize_OverBufconn(t *testing.T) {
	syncSvc := &stubSync{}
	client := startServer(t, syncSvc)

	req := models.SyncRequest{
		DeviceID:   "tablet",
		EntityType: models.EntityGoal,
		Changes: []models.Change{{
			ID: "c1", EntityID: "g1", EntityType: models.EntityGoal,
			Operation: models.OperationCreate, Timestamp: 10,
			Payload: []byte(`{"target":100}`), Origin: models.OriginProvider,
		}},
	}

	var header metadata.MD
	resp, err := client.Synchronize(withToken("good"), req, grpc.Header(&header))

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1234), resp.Timestamp)
	require.Len(t, resp.Changes, 1)
	assert.JSONEq(t, `{"target":100}`, string(resp.Changes[0].Payload))

	assert.Equal(t, int64(7), syncSvc.gotUser)
	assert.Equal(t, models.OriginClient, syncSvc.gotReq.Changes[0].Origin)
	assert.NotEmpty(t, header.Get(traceIDKey))
}

func TestSynchronize_Unauthenticated(t *testing.T) {
	client := startServer(t, &stubSync{})

	_, err := client.Synchronize(context.Background(), models.SyncRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.Synchronize(withToken("bad"), models.SyncRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSynchronize_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: fmt.Errorf("%w: too many changes", service.ErrValidation), want: codes.InvalidArgument},
		{err: fmt.Errorf("%w: serialization failure", service.ErrRetryable), want: codes.Unavailable},
		{err: fmt.Errorf("%w: %w", service.ErrSyncFailed, context.DeadlineExceeded), want: codes.DeadlineExceeded},
		{err: errors.New("disk on fire"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			client := startServer(t, &stubSync{err: tt.err})

			_, err := client.Synchronize(withToken("good"), models.SyncRequest{DeviceID: "d", EntityType: models.EntityAccount})
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestStatusFromError_InvalidStoredChangeIsInternal(t *testing.T) {
	err := statusFromError(fmt.Errorf("%w: %w", service.ErrSyncFailed, service.ErrInvalidChange))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestStatusFromError_HidesInternalDetails(t *testing.T) {
	err := statusFromError(errors.New("password=hunter2"))
	assert.NotContains(t, status.Convert(err).Message(), "hunter2")
}
