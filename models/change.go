// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Operation is the kind of mutation a [Change] applies to an entity.
type Operation string

const (
	// OperationCreate introduces a new entity.
	OperationCreate Operation = "CREATE"

	// OperationUpdate replaces the payload of an existing entity.
	OperationUpdate Operation = "UPDATE"

	// OperationDelete marks the entity as removed. The payload is optional.
	OperationDelete Operation = "DELETE"
)

// Origin tells where a [Change] was produced.
type Origin string

const (
	// OriginClient marks changes extracted from a device's local store.
	OriginClient Origin = "CLIENT"

	// OriginProvider marks changes normalized from aggregator snapshots.
	OriginProvider Origin = "PROVIDER"
)

// EntityType names the domain entity family a change belongs to.
// Every sync round covers exactly one entity type.
type EntityType string

const (
	EntityAccount     EntityType = "account"
	EntityTransaction EntityType = "transaction"
	EntityBudget      EntityType = "budget"
	EntityGoal        EntityType = "goal"
)

// EntityTypes lists every entity type in the order clients synchronize them.
var EntityTypes = []EntityType{
	EntityAccount,
	EntityTransaction,
	EntityBudget,
	EntityGoal,
}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Change is one atomic mutation of a domain entity.
// A Change is immutable once recorded: stores only ever append it.
type Change struct {
	// ID uniquely identifies the change within the owner's change log.
	// Clients generate it (uuid) when the mutation is recorded.
	ID string `json:"id" validate:"required,max=64"`

	// EntityID identifies the mutated entity inside its EntityType.
	EntityID string `json:"entityId" validate:"required,max=128"`

	// EntityType is the entity family. It must match the enclosing round.
	EntityType EntityType `json:"entityType" validate:"required,oneof=account transaction budget goal"`

	// Operation is CREATE, UPDATE or DELETE.
	Operation Operation `json:"operation" validate:"required,oneof=CREATE UPDATE DELETE"`

	// Timestamp is the Unix time in milliseconds at which the mutation
	// happened on its originating clock. Conflict resolution compares it.
	Timestamp int64 `json:"timestamp" validate:"gt=0"`

	// Payload is the full entity body as a JSON object.
	// Required for CREATE and UPDATE.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Origin tells whether the change came from a device or the provider.
	Origin Origin `json:"origin,omitempty" validate:"omitempty,oneof=CLIENT PROVIDER"`

	// DeviceID is the device (or provider item) that produced the change.
	DeviceID string `json:"deviceId,omitempty" validate:"max=128"`
}

// IsDelete reports whether the change removes its entity.
func (c Change) IsDelete() bool {
	return c.Operation == OperationDelete
}
