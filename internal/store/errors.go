package store

import "errors"

// Sentinel errors returned by repository methods. Callers match them with
// [errors.Is].
var (
	// ErrConflictNotFound is returned when a conflict does not exist, belongs
	// to another user or was already resolved.
	ErrConflictNotFound = errors.New("conflict was not found")

	// ErrConflictStale is returned when the entity of a pending conflict has
	// moved past both of its sides. The conflict is retired as superseded.
	ErrConflictStale = errors.New("conflict is stale")

	// ErrLinkNotFound is returned when a provider link does not exist or
	// belongs to another user.
	ErrLinkNotFound = errors.New("provider link was not found")

	// ErrLinkAlreadyExists is returned when the user already linked the item.
	ErrLinkAlreadyExists = errors.New("provider link already exists")

	// ErrRetryable marks failures the caller may retry as a whole round,
	// e.g. serialization failures or dropped connections.
	ErrRetryable = errors.New("transient storage failure")

	// ErrUnsupportedResolution is returned when a conflict is resolved with
	// anything but CLIENT_WIN or SERVER_WIN.
	ErrUnsupportedResolution = errors.New("unsupported conflict resolution")
)

// Low-level database operation errors. Repository methods wrap the driver
// error with one of them.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrAcquiringLock        = errors.New("failed to acquire user lock")
	ErrEncodingPayload      = errors.New("failed to encode payload")
	ErrDecodingPayload      = errors.New("failed to decode payload")
)
