// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inbound sync requests and their changes before
// any resolution work begins.
//
// Structural rules (required fields, enums, lengths) are declared as
// go-playground/validator tags on the models; rules that span fields
// (entity type of every change matches the round, payload presence per
// operation, unique change ids) are checked here.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
