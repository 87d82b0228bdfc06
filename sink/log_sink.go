package sink

import (
	"context"
	"dm-chat/domain/event"
	"log/slog"
)

// LogSink traces every delivered event. It is registered as a permanent sink.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) ID() string {
	return "event-log"
}

func (s *LogSink) Consume(ctx context.Context, e event.DomainEvent) error {
	s.log.DebugContext(ctx, "Event published",
		"type", e.Type(),
		"room_id", e.RoomID(),
		"recipients", e.Recipients(),
		"at", e.OccurredAt())
	return nil
}
