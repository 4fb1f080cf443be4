package service

import "errors"

var (
	// ErrValidation wraps every rejection of a malformed request. Nothing is
	// fetched or written when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidChange is an invariant violation found while resolving,
	// e.g. a change without an id or entity id. The round is aborted.
	ErrInvalidChange = errors.New("invalid change")

	ErrConflictNotFound = errors.New("conflict not found or already resolved")

	// ErrConflictStale means the entity moved on after the conflict was
	// detected. The conflict is retired and nothing is applied.
	ErrConflictStale = errors.New("conflict is stale, the entity changed since")
	ErrLinkNotFound     = errors.New("provider link not found")
	ErrLinkExists       = errors.New("provider item already linked")

	// ErrProviderUnavailable covers aggregator failures. The store is left
	// untouched when it is returned.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderDisabled    = errors.New("provider integration is not configured")

	// ErrRetryable marks transient storage failures. Retrying the whole round
	// is the caller's decision.
	ErrRetryable = errors.New("temporary failure, retry the round")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")

	ErrSyncFailed = errors.New("sync round failed")
)
