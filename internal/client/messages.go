// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"

	"github.com/MKhiriev/mint-sync/internal/service"
)

// Msg* are the texts shown to the person running the CLI. Details stay in
// the log file.
const (
	MsgInvalidInput      = "the change was rejected as invalid"
	MsgUnauthorized      = "the server rejected the token, set a new one with --token or MINT_TOKEN"
	MsgConflictNotFound  = "conflict not found or already resolved"
	MsgConflictStale     = "the entity changed after the conflict was detected, sync again to get its current state"
	MsgServerUnavailable = "the server is temporarily unavailable, local changes are kept for the next sync"
	MsgProviderFailure   = "the financial data provider is unavailable"
	MsgSyncFailed        = "sync failed, local changes are kept for the next sync"
	MsgUnexpectedProblem = "unexpected error"
)

var userMessages = []struct {
	target error
	msg    string
}{
	{service.ErrValidation, MsgInvalidInput},
	{service.ErrTokenIsExpiredOrInvalid, MsgUnauthorized},
	{service.ErrConflictNotFound, MsgConflictNotFound},
	{service.ErrConflictStale, MsgConflictStale},
	{service.ErrRetryable, MsgServerUnavailable},
	{service.ErrProviderUnavailable, MsgProviderFailure},
	{service.ErrSyncFailed, MsgSyncFailed},
}

// UserMessage returns the CLI text for err.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}
	return MsgUnexpectedProblem
}
