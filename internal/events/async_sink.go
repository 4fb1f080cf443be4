package events

import (
	"context"
	"sync/atomic"

	"github.com/MKhiriev/mint-sync/internal/logger"
)

// AsyncSink queues events for a downstream sink and delivers them from
// [AsyncSink.Run]. Emit never blocks: when the queue is full the event is
// dropped and counted.
type AsyncSink struct {
	next    Sink
	queue   chan queued
	dropped atomic.Int64
	logger  *logger.Logger
}

type queued struct {
	ctx   context.Context
	event Event
}

// NewAsyncSink returns a sink with a queue of size buffer (at least 1).
func NewAsyncSink(next Sink, buffer int, log *logger.Logger) *AsyncSink {
	if buffer < 1 {
		buffer = 1
	}

	return &AsyncSink{
		next:   next,
		queue:  make(chan queued, buffer),
		logger: log,
	}
}

func (s *AsyncSink) Emit(ctx context.Context, event Event) {
	// detach from the caller's deadline, keep its values (logger, trace id)
	item := queued{ctx: context.WithoutCancel(ctx), event: event}

	select {
	case s.queue <- item:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (s *AsyncSink) Dropped() int64 {
	return s.dropped.Load()
}

// Run delivers queued events until ctx is done, then flushes whatever is
// still buffered.
func (s *AsyncSink) Run(ctx context.Context) {
	s.logger.Info().Str("func", "AsyncSink.Run").Int("buffer", cap(s.queue)).Msg("event dispatcher started")

	for {
		select {
		case item := <-s.queue:
			s.next.Emit(item.ctx, item.event)
		case <-ctx.Done():
			s.flush()
			s.logger.Info().
				Str("func", "AsyncSink.Run").
				Int64("dropped", s.Dropped()).
				Msg("event dispatcher stopped")
			return
		}
	}
}

func (s *AsyncSink) flush() {
	for {
		select {
		case item := <-s.queue:
			s.next.Emit(item.ctx, item.event)
		default:
			return
		}
	}
}
