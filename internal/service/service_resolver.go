// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/mint-sync/models"
)

// conflictResolver is the in-memory implementation of [ConflictResolver].
// It has no dependencies and no side effects.
type conflictResolver struct{}

func NewConflictResolver() ConflictResolver {
	return &conflictResolver{}
}

// Resolve gives every entity present on either side exactly one outcome.
//
// Each side is first compacted to its latest change per entity, so an entity
// never conflicts with itself. Then:
//   - client-only entities are accepted,
//   - entities on both sides go to the strictly later timestamp,
//   - equal timestamps become MANUAL_REQUIRED conflicts and stay out of
//     Resolved,
//   - server-only entities are appended unchanged.
//
// A pair carrying the same change id is the client's own change coming back
// and is accepted once. DELETE against UPDATE follows the same timestamp rule.
func (r *conflictResolver) Resolve(ctx context.Context, clientChanges, serverChanges []models.Change) (models.ConflictResolution, error) {
	clientOrder, clientIndex, err := compact(ctx, clientChanges)
	if err != nil {
		return models.ConflictResolution{}, err
	}
	serverOrder, serverIndex, err := compact(ctx, serverChanges)
	if err != nil {
		return models.ConflictResolution{}, err
	}

	result := models.ConflictResolution{
		Resolved:  make([]models.Change, 0, len(clientOrder)+len(serverOrder)),
		Conflicts: make([]models.Conflict, 0),
	}

	// ── Pass 1: client entities ─────────────────────────────────────────────
	for _, entityID := range clientOrder {
		if err = ctx.Err(); err != nil {
			return models.ConflictResolution{}, err
		}

		cc := clientIndex[entityID]
		sc, onServer := serverIndex[entityID]

		switch {
		case !onServer:
			result.Resolved = append(result.Resolved, cc)
			result.Stats.Accepted++

		case cc.ID == sc.ID:
			result.Resolved = append(result.Resolved, cc)
			result.Stats.Accepted++

		case cc.Timestamp > sc.Timestamp:
			result.Resolved = append(result.Resolved, cc)
			result.Stats.ClientWins++

		case cc.Timestamp < sc.Timestamp:
			result.Resolved = append(result.Resolved, sc)
			result.Stats.ServerWins++

		default:
			result.Conflicts = append(result.Conflicts, models.Conflict{
				ClientChange: cc,
				ServerChange: sc,
				Resolution:   models.ResolutionManualRequired,
			})
			result.Stats.Manual++
		}
	}

	// ── Pass 2: server-only entities ────────────────────────────────────────
	for _, entityID := range serverOrder {
		if err = ctx.Err(); err != nil {
			return models.ConflictResolution{}, err
		}

		if _, onClient := clientIndex[entityID]; onClient {
			continue
		}
		result.Resolved = append(result.Resolved, serverIndex[entityID])
	}

	return result, nil
}

// compact keeps the latest change of every entity. On equal timestamps the
// change listed later wins. order keeps the first-seen order of entities.
func compact(ctx context.Context, changes []models.Change) (order []string, index map[string]models.Change, err error) {
	order = make([]string, 0, len(changes))
	index = make(map[string]models.Change, len(changes))

	for i, change := range changes {
		if err = ctx.Err(); err != nil {
			return nil, nil, err
		}

		if change.ID == "" || change.EntityID == "" {
			return nil, nil, fmt.Errorf("%w: change #%d has empty id or entity id", ErrInvalidChange, i)
		}

		prev, seen := index[change.EntityID]
		if !seen {
			order = append(order, change.EntityID)
			index[change.EntityID] = change
			continue
		}
		if change.Timestamp >= prev.Timestamp {
			index[change.EntityID] = change
		}
	}

	return order, index, nil
}
