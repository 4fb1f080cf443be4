// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncRequest is produced by a device once per sync round and entity type.
type SyncRequest struct {
	// DeviceID identifies the submitting device.
	DeviceID string `json:"deviceId" validate:"required,max=128"`

	// LastSyncTimestamp is the server cursor returned by the previous
	// round (SyncResponse.Timestamp). Zero requests the full history.
	LastSyncTimestamp int64 `json:"lastSyncTimestamp" validate:"gte=0"`

	// EntityType is the entity family covered by this round.
	EntityType EntityType `json:"entityType" validate:"required,oneof=account transaction budget goal"`

	// Changes are the device's pending mutations ordered by local timestamp.
	Changes []Change `json:"changes" validate:"dive"`

	// ClientVersion is the application version of the submitting client.
	ClientVersion string `json:"clientVersion" validate:"max=64"`
}

// SyncResponse is returned to the device at the end of a round.
type SyncResponse struct {
	// Success is true when the merged set was applied.
	Success bool `json:"success"`

	// Timestamp is the server cursor of this round. The device sends it
	// back as SyncRequest.LastSyncTimestamp in the next round.
	Timestamp int64 `json:"timestamp"`

	// Changes is the authoritative post-merge delta the device must apply.
	Changes []Change `json:"changes"`

	// Conflicts are pairs that need a manual decision.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// EntityType echoes the round's entity type.
	EntityType EntityType `json:"entityType"`
}

// SyncRound is everything one orchestrator round hands to the
// authoritative store to be applied as a single unit of work.
type SyncRound struct {
	UserID        int64
	DeviceID      string
	ClientVersion string
	EntityType    EntityType

	// Resolved are the changes to record and apply.
	Resolved []Change

	// Conflicts are persisted as pending for an operator or client to act on.
	Conflicts []Conflict

	// RequestedAt is the orchestrator clock in Unix milliseconds. The store
	// may move the round cursor past it to keep cursors strictly increasing.
	RequestedAt int64
}

// ClientRound is the outcome of a round as seen by the device's local store.
type ClientRound struct {
	EntityType EntityType

	// Applied are the server changes to merge into local state.
	Applied []Change

	// SyncedIDs are local change ids acknowledged by the server.
	SyncedIDs []string

	// ConflictedIDs are local change ids flagged for manual resolution.
	ConflictedIDs []string

	// Cursor is the server timestamp to send in the next round.
	Cursor int64
}

// ClientSyncReport summarizes one client round for one entity type.
type ClientSyncReport struct {
	EntityType EntityType `json:"entityType"`

	// Sent is the number of compacted changes submitted.
	Sent int `json:"sent"`

	// Superseded is the number of pending changes folded into later ones.
	Superseded int `json:"superseded"`

	// Received is the number of changes applied from the server.
	Received  int   `json:"received"`
	Conflicts int   `json:"conflicts"`
	Cursor    int64 `json:"cursor"`
}

// ClientStatus describes the local store of a device.
type ClientStatus struct {
	DeviceID string               `json:"deviceId"`
	Counts   map[string]int       `json:"counts"`
	Cursors  map[EntityType]int64 `json:"cursors"`
}
