package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/core/ports"
)

// LogPublisher writes events to the log. It is the sink when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

var _ ports.EventPublisher = LogPublisher{}

func NewLogPublisher(log zerolog.Logger) LogPublisher {
	return LogPublisher{log: log}
}

func (p LogPublisher) Publish(_ context.Context, event ports.RepositoryEvent) error {
	p.log.Info().
		Str("resource", event.Resource).
		Str("action", string(event.Action)).
		Int64("id", event.ID).
		Time("at", event.At).
		Msg("repository event")
	return nil
}
