// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by handlers and the auth middleware. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned when the request has no
	// "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoUserID is returned when an authorized route runs without the
	// user id the auth middleware stores in the context.
	ErrNoUserID = errors.New("no user ID was given")

	ErrInvalidJSON   = errors.New("invalid JSON was passed")
	ErrBodyTooLarge  = errors.New("request body is too large")
	ErrInvalidLinkID = errors.New("link id must be a positive integer")
)
