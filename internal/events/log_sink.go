package events

import (
	"context"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/rs/zerolog"
)

// LogSink writes every event as one structured log line. Failures are logged
// at warn level, everything else at info.
type LogSink struct {
	logger *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Emit(_ context.Context, event Event) {
	var entry *zerolog.Event
	if event.Err != nil {
		entry = s.logger.Warn().Err(event.Err)
	} else {
		entry = s.logger.Info()
	}

	entry = entry.
		Str("event", string(event.Kind)).
		Time("at", event.At).
		Int64("user_id", event.UserID)

	if event.DeviceID != "" {
		entry = entry.Str("device_id", event.DeviceID)
	}
	if event.EntityType != "" {
		entry = entry.Str("entity_type", string(event.EntityType))
	}
	if event.Origin != "" {
		entry = entry.Str("origin", string(event.Origin))
	}
	if event.LinkID != 0 {
		entry = entry.Int64("link_id", event.LinkID)
	}
	if event.ConflictID != "" {
		entry = entry.Str("conflict_id", event.ConflictID)
	}

	entry.
		Int("submitted", event.Submitted).
		Int("resolved", event.Resolved).
		Int("conflicts", event.Conflicts).
		Int64("cursor", event.Cursor).
		Dur("duration", event.Duration).
		Msg("lifecycle event")
}
