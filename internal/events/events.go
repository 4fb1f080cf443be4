// Package events carries the lifecycle signals of sync rounds and provider
// ingestion runs. Sinks are passed explicitly to the services that emit;
// emitting never affects the outcome of the operation that emits.
package events

import (
	"context"
	"time"

	"github.com/MKhiriev/mint-sync/models"
)

// Kind names a lifecycle signal.
type Kind string

const (
	KindSyncStarted   Kind = "sync.started"
	KindSyncSucceeded Kind = "sync.succeeded"
	KindSyncFailed    Kind = "sync.failed"

	KindIngestionStarted   Kind = "ingestion.started"
	KindIngestionSucceeded Kind = "ingestion.succeeded"
	KindIngestionFailed    Kind = "ingestion.failed"

	KindConflictResolved Kind = "conflict.resolved"
)

// Event is one lifecycle signal. Fields that do not apply to a Kind are
// left zero.
type Event struct {
	Kind       Kind
	At         time.Time
	UserID     int64
	DeviceID   string
	EntityType models.EntityType
	Origin     models.Origin

	// Submitted is the number of changes sent by the caller.
	Submitted int
	// Resolved is the number of changes applied to the authoritative store.
	Resolved int
	// Conflicts is the number of pairs left for manual resolution.
	Conflicts int
	// Cursor is the server cursor produced by a successful round.
	Cursor int64

	LinkID     int64
	ConflictID string

	Duration time.Duration
	Err      error
}

// Sink receives lifecycle events. Implementations must not block the caller
// for long and must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, event Event)

func (f SinkFunc) Emit(ctx context.Context, event Event) {
	f(ctx, event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// Multi fans an event out to every sink in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}
