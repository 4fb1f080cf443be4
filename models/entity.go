package models

import "encoding/json"

// EntityState is the current state of one entity after every recorded
// change has been applied in timestamp order.
type EntityState struct {
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Deleted    bool            `json:"deleted"`

	// ChangeID is the id of the last applied change.
	ChangeID string `json:"changeId"`

	// Timestamp is the timestamp of the last applied change.
	Timestamp int64 `json:"timestamp"`
}

// EntityList is the response body of the entity snapshot endpoint.
type EntityList struct {
	EntityType EntityType    `json:"entityType"`
	Entities   []EntityState `json:"entities"`
	Length     int           `json:"length"`
}
