package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/models"
)

type changeExtractor struct {
	local store.LocalRepository
}

func NewChangeExtractor(local store.LocalRepository) ChangeExtractor {
	return &changeExtractor{local: local}
}

// Extract keeps the latest pending change of every entity. A CREATE followed
// by updates is still sent as CREATE so the server sees the entity's origin.
func (e *changeExtractor) Extract(ctx context.Context, entityType models.EntityType) (Extraction, error) {
	pending, err := e.local.PendingChanges(ctx, entityType)
	if err != nil {
		return Extraction{}, fmt.Errorf("error reading pending changes: %w", err)
	}

	return compactPending(pending), nil
}

// compactPending expects changes ordered by timestamp, then id.
func compactPending(pending []models.Change) Extraction {
	latest := make(map[string]int, len(pending))
	created := make(map[string]bool, len(pending))
	order := make([]string, 0, len(pending))
	superseded := make([]string, 0)

	for i, c := range pending {
		prev, seen := latest[c.EntityID]
		if !seen {
			order = append(order, c.EntityID)
			created[c.EntityID] = c.Operation == models.OperationCreate
		} else {
			superseded = append(superseded, pending[prev].ID)
		}
		latest[c.EntityID] = i
	}

	changes := make([]models.Change, 0, len(order))
	for _, entityID := range order {
		c := pending[latest[entityID]]
		if created[entityID] && c.Operation == models.OperationUpdate {
			c.Operation = models.OperationCreate
		}
		changes = append(changes, c)
	}
	slices.SortStableFunc(changes, func(a, b models.Change) int {
		return cmp.Or(cmp.Compare(a.Timestamp, b.Timestamp), cmp.Compare(a.ID, b.ID))
	})

	return Extraction{Changes: changes, Superseded: superseded}
}
