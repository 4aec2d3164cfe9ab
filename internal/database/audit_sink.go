package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/camayank/transfer-pricing-platform/internal/events"
)

// AttachAuditSink subscribes the repository to the event bus so every
// published event is appended to the audit_events table. Insert failures
// are logged and dropped; the audit trail must never block or fail an
// engine invocation.
func AttachAuditSink(bus *events.EventBus, repo *Repository, logger zerolog.Logger) {
	sinkLogger := logger.With().Str("component", "audit_sink").Logger()

	bus.SubscribeAll(func(event events.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := repo.InsertAuditEvent(ctx, event); err != nil {
			sinkLogger.Warn().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", string(event.Type)).
				Msg("Failed to persist audit event")
		}
	})
}
