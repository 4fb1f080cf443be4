package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")

	// ErrTransport is returned when no response was received at all.
	ErrTransport = errors.New("transport failure")

	ErrInvalidAddress = errors.New("invalid address")

	// ErrProviderAPI wraps error objects returned by the aggregator.
	ErrProviderAPI = errors.New("provider api error")
)
