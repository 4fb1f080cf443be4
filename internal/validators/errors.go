package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidStructure   = errors.New("invalid structure")
	ErrEntityTypeMismatch = errors.New("change entity type does not match the sync round")
	ErrMissingPayload     = errors.New("payload is required for CREATE and UPDATE")
	ErrInvalidPayload     = errors.New("payload must be a JSON object")
	ErrDuplicateChangeID  = errors.New("duplicate change id in request")
	ErrInvalidEntityType  = errors.New("invalid entity type")
	ErrInvalidResolution  = errors.New("resolution must be CLIENT_WIN or SERVER_WIN")
	ErrEmptyPublicToken   = errors.New("public token is required")
	ErrTooManyChanges     = errors.New("too many changes in one round")
)
