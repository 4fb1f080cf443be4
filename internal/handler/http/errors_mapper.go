package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/internal/store"
)

// errorStatusMap is checked in order: a chain may carry several sentinels,
// e.g. ErrSyncFailed wrapping a context deadline. service.ErrInvalidChange is
// left out on purpose: requests are validated first, so it can only come from
// stored data and answers 500.
var errorStatusMap = []struct {
	target error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrVersionIsNotSpecified, http.StatusBadRequest},
	{store.ErrUnsupportedResolution, http.StatusBadRequest},

	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},

	{service.ErrConflictNotFound, http.StatusNotFound},
	{service.ErrLinkNotFound, http.StatusNotFound},
	{store.ErrConflictNotFound, http.StatusNotFound},
	{store.ErrLinkNotFound, http.StatusNotFound},

	{service.ErrLinkExists, http.StatusConflict},
	{service.ErrConflictStale, http.StatusConflict},

	{service.ErrProviderDisabled, http.StatusNotImplemented},
	{service.ErrProviderUnavailable, http.StatusBadGateway},

	{context.DeadlineExceeded, http.StatusGatewayTimeout},

	{service.ErrRetryable, http.StatusServiceUnavailable},
	{store.ErrRetryable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatusMap {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// errorMessage hides internal failures behind their status text.
func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
