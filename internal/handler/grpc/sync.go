package grpc

import (
	"context"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName          = "mintsync.v1.SyncService"
	synchronizeFullName  = "/" + serviceName + "/Synchronize"
	synchronizeShortName = "Synchronize"
)

// SyncServiceServer is implemented by [Handler].
type SyncServiceServer interface {
	Synchronize(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error)
}

// SyncServiceDesc describes mintsync.v1.SyncService for the JSON codec.
// There is no protobuf schema: requests and responses are models types.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: synchronizeShortName,
			Handler:    synchronizeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mintsync/v1/sync.json",
}

func synchronizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.SyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).Synchronize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: synchronizeFullName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServiceServer).Synchronize(ctx, req.(*models.SyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Synchronize runs one sync round for the authenticated user.
func (h *Handler) Synchronize(ctx context.Context, req *models.SyncRequest) (*models.SyncResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no user ID was given")
	}

	for i := range req.Changes {
		req.Changes[i].Origin = models.OriginClient
	}

	resp, err := h.services.SyncService.Synchronize(ctx, userID, *req)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*Handler.Synchronize").Msg("sync round failed")
		return nil, statusFromError(err)
	}

	return &resp, nil
}

// SyncClient calls mintsync.v1.SyncService over a connection.
type SyncClient struct {
	cc grpc.ClientConnInterface
}

func NewSyncClient(cc grpc.ClientConnInterface) *SyncClient {
	return &SyncClient{cc: cc}
}

func (c *SyncClient) Synchronize(ctx context.Context, req models.SyncRequest, opts ...grpc.CallOption) (models.SyncResponse, error) {
	var resp models.SyncResponse
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, synchronizeFullName, &req, &resp, opts...); err != nil {
		return models.SyncResponse{}, err
	}
	return resp, nil
}
