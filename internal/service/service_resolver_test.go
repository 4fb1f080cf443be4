// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/MKhiriev/mint-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ch(id, entityID string, op models.Operation, ts int64, payload string) models.Change {
	c := models.Change{
		ID:         id,
		EntityID:   entityID,
		EntityType: models.EntityTransaction,
		Operation:  op,
		Timestamp:  ts,
	}
	if payload != "" {
		c.Payload = json.RawMessage(payload)
	}
	return c
}

func entityIDs(changes []models.Change) []string {
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		ids = append(ids, c.EntityID)
	}
	return ids
}

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		client        []models.Change
		server        []models.Change
		wantResolved  []models.Change
		wantConflicts []string
		wantStats     models.ResolutionStats
	}{
		{
			name:         "newer client update wins",
			client:       []models.Change{ch("c1", "t1", models.OperationUpdate, 100, `{"amount":10}`)},
			server:       []models.Change{ch("s1", "t1", models.OperationUpdate, 90, `{"amount":5}`)},
			wantResolved: []models.Change{ch("c1", "t1", models.OperationUpdate, 100, `{"amount":10}`)},
			wantStats:    models.ResolutionStats{ClientWins: 1},
		},
		{
			name:          "equal timestamps need a person",
			client:        []models.Change{ch("c2", "t2", models.OperationUpdate, 100, `{"amount":1}`)},
			server:        []models.Change{ch("s2", "t2", models.OperationUpdate, 100, `{"amount":2}`)},
			wantResolved:  []models.Change{},
			wantConflicts: []string{"t2"},
			wantStats:     models.ResolutionStats{Manual: 1},
		},
		{
			name:   "no client changes returns server delta",
			client: nil,
			server: []models.Change{
				ch("s3", "t3", models.OperationCreate, 50, `{"amount":3}`),
				ch("s4", "t4", models.OperationCreate, 60, `{"amount":4}`),
			},
			wantResolved: []models.Change{
				ch("s3", "t3", models.OperationCreate, 50, `{"amount":3}`),
				ch("s4", "t4", models.OperationCreate, 60, `{"amount":4}`),
			},
		},
		{
			name:         "newer server change wins",
			client:       []models.Change{ch("c5", "t5", models.OperationUpdate, 80, `{"amount":1}`)},
			server:       []models.Change{ch("s5", "t5", models.OperationUpdate, 81, `{"amount":2}`)},
			wantResolved: []models.Change{ch("s5", "t5", models.OperationUpdate, 81, `{"amount":2}`)},
			wantStats:    models.ResolutionStats{ServerWins: 1},
		},
		{
			name:         "later delete beats update",
			client:       []models.Change{ch("c6", "t6", models.OperationDelete, 200, "")},
			server:       []models.Change{ch("s6", "t6", models.OperationUpdate, 150, `{"amount":2}`)},
			wantResolved: []models.Change{ch("c6", "t6", models.OperationDelete, 200, "")},
			wantStats:    models.ResolutionStats{ClientWins: 1},
		},
		{
			name:         "later update beats delete",
			client:       []models.Change{ch("c7", "t7", models.OperationUpdate, 150, `{"amount":2}`)},
			server:       []models.Change{ch("s7", "t7", models.OperationDelete, 200, "")},
			wantResolved: []models.Change{ch("s7", "t7", models.OperationDelete, 200, "")},
			wantStats:    models.ResolutionStats{ServerWins: 1},
		},
		{
			name:         "echoed change is accepted once",
			client:       []models.Change{ch("c8", "t8", models.OperationCreate, 70, `{"amount":8}`)},
			server:       []models.Change{ch("c8", "t8", models.OperationCreate, 70, `{"amount":8}`)},
			wantResolved: []models.Change{ch("c8", "t8", models.OperationCreate, 70, `{"amount":8}`)},
			wantStats:    models.ResolutionStats{Accepted: 1},
		},
		{
			name: "client entities first then server only",
			client: []models.Change{
				ch("c9", "t9", models.OperationCreate, 10, `{}`),
			},
			server: []models.Change{
				ch("s10", "t10", models.OperationCreate, 5, `{}`),
				ch("s9", "t9", models.OperationUpdate, 1, `{}`),
			},
			wantResolved: []models.Change{
				ch("c9", "t9", models.OperationCreate, 10, `{}`),
				ch("s10", "t10", models.OperationCreate, 5, `{}`),
			},
			wantStats: models.ResolutionStats{ClientWins: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewConflictResolver().Resolve(context.Background(), tt.client, tt.server)
			require.NoError(t, err)

			assert.Equal(t, tt.wantResolved, got.Resolved)
			assert.Equal(t, tt.wantStats.ClientWins, got.Stats.ClientWins)
			assert.Equal(t, tt.wantStats.ServerWins, got.Stats.ServerWins)
			assert.Equal(t, tt.wantStats.Manual, got.Stats.Manual)
			assert.Equal(t, tt.wantStats.Accepted, got.Stats.Accepted)

			conflicted := make([]string, 0, len(got.Conflicts))
			for _, c := range got.Conflicts {
				assert.Equal(t, models.ResolutionManualRequired, c.Resolution)
				conflicted = append(conflicted, c.ClientChange.EntityID)
			}
			if len(tt.wantConflicts) == 0 {
				assert.Empty(t, conflicted)
			} else {
				assert.Equal(t, tt.wantConflicts, conflicted)
			}
		})
	}
}

func TestResolve_ConflictKeepsBothSides(t *testing.T) {
	client := ch("c1", "t1", models.OperationUpdate, 100, `{"amount":1}`)
	server := ch("s1", "t1", models.OperationUpdate, 100, `{"amount":2}`)

	got, err := NewConflictResolver().Resolve(context.Background(), []models.Change{client}, []models.Change{server})
	require.NoError(t, err)

	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, client, got.Conflicts[0].ClientChange)
	assert.Equal(t, server, got.Conflicts[0].ServerChange)
	assert.Empty(t, got.Conflicts[0].ID)
	assert.NotContains(t, entityIDs(got.Resolved), "t1")
}

func TestResolve_CompactsEachSide(t *testing.T) {
	client := []models.Change{
		ch("c1", "a", models.OperationCreate, 10, `{"v":1}`),
		ch("c2", "a", models.OperationUpdate, 30, `{"v":2}`),
		ch("c3", "a", models.OperationUpdate, 20, `{"v":3}`),
		// same side tie: the later position wins
		ch("c4", "b", models.OperationCreate, 5, `{"v":1}`),
		ch("c5", "b", models.OperationUpdate, 5, `{"v":2}`),
	}
	server := []models.Change{
		ch("s1", "a", models.OperationUpdate, 25, `{"v":9}`),
		ch("s2", "a", models.OperationUpdate, 40, `{"v":10}`),
	}

	got, err := NewConflictResolver().Resolve(context.Background(), client, server)
	require.NoError(t, err)

	require.Len(t, got.Resolved, 2)
	assert.Equal(t, "s2", got.Resolved[0].ID)
	assert.Equal(t, "c5", got.Resolved[1].ID)
	assert.Empty(t, got.Conflicts)
	assert.Equal(t, 1, got.Stats.ServerWins)
	assert.Equal(t, 1, got.Stats.Accepted)
}

func TestResolve_EveryEntityHasOneOutcome(t *testing.T) {
	var client, server []models.Change
	for i := 0; i < 50; i++ {
		entityID := fmt.Sprintf("e%d", i)
		if i%2 == 0 {
			client = append(client, ch(fmt.Sprintf("c%d", i), entityID, models.OperationUpdate, int64(100+i%3), `{}`))
		}
		if i%3 == 0 {
			server = append(server, ch(fmt.Sprintf("s%d", i), entityID, models.OperationUpdate, int64(101), `{}`))
		}
	}

	got, err := NewConflictResolver().Resolve(context.Background(), client, server)
	require.NoError(t, err)

	outcomes := map[string]int{}
	for _, c := range got.Resolved {
		outcomes[c.EntityID]++
	}
	for _, c := range got.Conflicts {
		outcomes[c.ClientChange.EntityID]++
	}

	for i := 0; i < 50; i++ {
		entityID := fmt.Sprintf("e%d", i)
		if i%2 != 0 && i%3 != 0 {
			assert.Zero(t, outcomes[entityID], entityID)
			continue
		}
		assert.Equal(t, 1, outcomes[entityID], entityID)
	}
}

func TestResolve_IsDeterministic(t *testing.T) {
	client := []models.Change{
		ch("c1", "x", models.OperationUpdate, 10, `{}`),
		ch("c2", "y", models.OperationUpdate, 20, `{}`),
	}
	server := []models.Change{
		ch("s1", "y", models.OperationUpdate, 20, `{}`),
		ch("s2", "z", models.OperationUpdate, 30, `{}`),
	}

	first, err := NewConflictResolver().Resolve(context.Background(), client, server)
	require.NoError(t, err)
	second, err := NewConflictResolver().Resolve(context.Background(), client, server)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_InvalidChange(t *testing.T) {
	tests := []struct {
		name   string
		client []models.Change
		server []models.Change
	}{
		{name: "client without entity id", client: []models.Change{ch("c1", "", models.OperationCreate, 1, `{}`)}},
		{name: "client without id", client: []models.Change{ch("", "e1", models.OperationCreate, 1, `{}`)}},
		{name: "server without entity id", server: []models.Change{ch("s1", "", models.OperationCreate, 1, `{}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConflictResolver().Resolve(context.Background(), tt.client, tt.server)
			assert.ErrorIs(t, err, ErrInvalidChange)
		})
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConflictResolver().Resolve(ctx, []models.Change{ch("c1", "e1", models.OperationCreate, 1, `{}`)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_EmptyInputs(t *testing.T) {
	got, err := NewConflictResolver().Resolve(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, got.Resolved)
	assert.NotNil(t, got.Conflicts)
	assert.Empty(t, got.Conflicts)
}
