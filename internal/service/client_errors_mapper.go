// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into a service
// error. The adapter error stays in the chain.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %w", ErrValidation, err)

	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrForbidden):
		return fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)

	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrConflictNotFound, err)

	case errors.Is(err, adapter.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflictStale, err)

	case errors.Is(err, adapter.ErrBadGateway):
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)

	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, adapter.ErrTooManyRequests),
		errors.Is(err, adapter.ErrServiceUnavailable),
		errors.Is(err, adapter.ErrGatewayTimeout):
		return fmt.Errorf("%w: %w", ErrRetryable, err)
	}

	return fmt.Errorf("%w: %w", ErrSyncFailed, err)
}
