package validators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-playground/validator/v10"
)

// Field names accepted by [SyncValidator.Validate] to scope validation.
const (
	// FieldStructure runs the struct tag rules.
	FieldStructure = "structure"

	// FieldEntityType requires every change to belong to the request's
	// entity type.
	FieldEntityType = "entity_type"

	// FieldPayload requires a JSON object payload for CREATE and UPDATE and
	// accepts an empty payload for DELETE.
	FieldPayload = "payload"

	// FieldUniqueIDs rejects requests carrying the same change id twice.
	FieldUniqueIDs = "unique_ids"

	// FieldBatchSize caps the number of changes per round.
	FieldBatchSize = "batch_size"
)

// MaxChangesPerRound bounds one SyncRequest.
const MaxChangesPerRound = 5000

// SyncValidator validates [models.SyncRequest], [models.Change],
// [models.ResolveConflictRequest] and [models.LinkRequest] (by value or
// pointer) as well as a bare [models.EntityType].
type SyncValidator struct {
	validate *validator.Validate
}

func NewSyncValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names ("entityId") instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &SyncValidator{validate: v}
}

func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncRequest:
		return v.validateSyncRequest(ctx, value, fields...)
	case *models.SyncRequest:
		return v.validateSyncRequest(ctx, *value, fields...)

	case models.Change:
		return v.validateChange(ctx, value, fields...)
	case *models.Change:
		return v.validateChange(ctx, *value, fields...)

	case models.ResolveConflictRequest:
		return v.validateResolveRequest(value)
	case *models.ResolveConflictRequest:
		return v.validateResolveRequest(*value)

	case models.LinkRequest:
		return v.validateLinkRequest(value)
	case *models.LinkRequest:
		return v.validateLinkRequest(*value)

	case models.EntityType:
		if !value.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidEntityType, value)
		}
		return nil

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncValidator) validateSyncRequest(ctx context.Context, req models.SyncRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBatchSize, FieldStructure, FieldEntityType, FieldPayload, FieldUniqueIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldBatchSize:
			if len(req.Changes) > MaxChangesPerRound {
				return fmt.Errorf("%w: %d > %d", ErrTooManyChanges, len(req.Changes), MaxChangesPerRound)
			}
		case FieldStructure:
			if err := v.structure(ctx, req); err != nil {
				return err
			}
		case FieldEntityType:
			for i, change := range req.Changes {
				if change.EntityType != req.EntityType {
					return fmt.Errorf("%w: changes[%d] is %q, round is %q", ErrEntityTypeMismatch, i, change.EntityType, req.EntityType)
				}
			}
		case FieldPayload:
			for i, change := range req.Changes {
				if err := checkPayload(change); err != nil {
					return fmt.Errorf("changes[%d]: %w", i, err)
				}
			}
		case FieldUniqueIDs:
			seen := make(map[string]struct{}, len(req.Changes))
			for i, change := range req.Changes {
				if _, dup := seen[change.ID]; dup {
					return fmt.Errorf("%w: changes[%d] id %q", ErrDuplicateChangeID, i, change.ID)
				}
				seen[change.ID] = struct{}{}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateChange(ctx context.Context, change models.Change, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldStructure, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldStructure:
			if err := v.structure(ctx, change); err != nil {
				return err
			}
		case FieldPayload:
			if err := checkPayload(change); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateResolveRequest(req models.ResolveConflictRequest) error {
	if req.Resolution != models.ResolutionClientWin && req.Resolution != models.ResolutionServerWin {
		return ErrInvalidResolution
	}
	return nil
}

func (v *SyncValidator) validateLinkRequest(req models.LinkRequest) error {
	if strings.TrimSpace(req.PublicToken) == "" {
		return ErrEmptyPublicToken
	}
	return v.structure(context.Background(), req)
}

// structure runs the struct tag rules and flattens the failures into one
// error wrapping ErrInvalidStructure.
func (v *SyncValidator) structure(ctx context.Context, obj any) error {
	err := v.validate.StructCtx(ctx, obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fieldPath(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidStructure, strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name from a validator namespace:
// "SyncRequest.changes[0].entityId" becomes "changes[0].entityId".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func checkPayload(change models.Change) error {
	if len(change.Payload) == 0 || string(change.Payload) == "null" {
		if change.Operation == models.OperationDelete {
			return nil
		}
		return ErrMissingPayload
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(change.Payload, &obj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}
