package grpc

import (
	"context"
	"errors"

	"github.com/MKhiriev/mint-sync/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodeMap = []struct {
	target error
	code   codes.Code
}{
	{service.ErrValidation, codes.InvalidArgument},
	{service.ErrTokenIsExpiredOrInvalid, codes.Unauthenticated},
	{service.ErrConflictNotFound, codes.NotFound},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
	{context.Canceled, codes.Canceled},
	{service.ErrRetryable, codes.Unavailable},
}

func statusFromError(err error) error {
	for _, e := range errorCodeMap {
		if errors.Is(err, e.target) {
			return status.Error(e.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}
