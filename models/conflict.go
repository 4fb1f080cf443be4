// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Resolution is the outcome of comparing a client and a server change
// for the same entity.
type Resolution string

const (
	// ResolutionClientWin means the client change is strictly newer.
	ResolutionClientWin Resolution = "CLIENT_WIN"

	// ResolutionServerWin means the server change is strictly newer.
	ResolutionServerWin Resolution = "SERVER_WIN"

	// ResolutionManualRequired means the timestamps are equal and a person
	// has to pick a side. Such pairs are never merged automatically.
	ResolutionManualRequired Resolution = "MANUAL_REQUIRED"
)

// Conflict pairs two changes to the same entity from different sides.
type Conflict struct {
	// ID is assigned by the server when the conflict is persisted.
	ID string `json:"id,omitempty"`

	ClientChange Change     `json:"clientChange"`
	ServerChange Change     `json:"serverChange"`
	Resolution   Resolution `json:"resolution"`
}

// ResolutionStats counts how each entity was settled during a round.
type ResolutionStats struct {
	Accepted   int `json:"accepted"`
	ClientWins int `json:"clientWins"`
	ServerWins int `json:"serverWins"`
	Manual     int `json:"manual"`
}

// ConflictResolution is the merged, conflict-free change set of a round
// plus the residual conflicts that could not be settled automatically.
type ConflictResolution struct {
	// Resolved holds every non-conflicting change plus the winning side of
	// each automatically settled pair. No entity appears twice.
	Resolved []Change `json:"resolved"`

	// Conflicts holds MANUAL_REQUIRED pairs only.
	Conflicts []Conflict `json:"conflicts"`

	Stats ResolutionStats `json:"stats"`
}

// ConflictStatus is the lifecycle state of a persisted conflict.
type ConflictStatus string

const (
	ConflictPending  ConflictStatus = "PENDING"
	ConflictResolved ConflictStatus = "RESOLVED"

	// ConflictSuperseded marks a conflict retired without a decision because
	// a strictly newer change of the entity was recorded after it.
	ConflictSuperseded ConflictStatus = "SUPERSEDED"
)

// StoredConflict is a conflict as kept by the authoritative store until
// someone picks a side.
type StoredConflict struct {
	Conflict

	UserID     int64          `json:"userId"`
	EntityType EntityType     `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Status     ConflictStatus `json:"status"`
	DetectedAt int64          `json:"detectedAt"`
	ResolvedAt *int64         `json:"resolvedAt,omitempty"`
}

// ResolveConflictRequest carries the side picked for a pending conflict.
type ResolveConflictRequest struct {
	Resolution Resolution `json:"resolution" validate:"required,oneof=CLIENT_WIN SERVER_WIN"`
}
