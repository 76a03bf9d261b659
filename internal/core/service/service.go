package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/notekeeper/notes-api/internal/core/constraint"
	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

var tracer = otel.Tracer("github.com/notekeeper/notes-api/internal/core/service")

// Repositories is the pair of stores both services work on.
type Repositories struct {
	Users ports.UserRepository
	Notes ports.NoteRepository
}

// Services wires a UserService and a NoteService around one mutation lock.
// Every write of either resource holds the lock from validation until the
// repository call returns, so a uniqueness or reference decision cannot go
// stale before it is acted on. Reads never take it.
//
// The publisher is called with the lock held and must not block; pass a
// queue.Dispatcher rather than a broker sink.
type Services struct {
	Users *UserService
	Notes *NoteService

	shared *shared
}

// New builds both services. publisher may be nil.
func New(repos Repositories, publisher ports.EventPublisher, log zerolog.Logger) *Services {
	sh := &shared{
		repos:     repos,
		engine:    constraint.NewEngine(repos.Users, repos.Notes),
		publisher: publisher,
		log:       log,
	}
	return &Services{
		Users:  &UserService{shared: sh},
		Notes:  &NoteService{shared: sh},
		shared: sh,
	}
}

// Reset drops every note and then every user. Id sequences keep counting.
func (s *Services) Reset(ctx context.Context) error {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if err := s.shared.repos.Notes.Reset(ctx); err != nil {
		return err
	}
	if err := s.shared.repos.Users.Reset(ctx); err != nil {
		return err
	}
	s.shared.log.Info().Msg("repositories reset")
	return nil
}

type shared struct {
	mu        sync.Mutex
	repos     Repositories
	engine    *constraint.Engine
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// publish hands a committed change to the event sink. It must run under s.mu
// so events of one record reach the sink in commit order; the sink must not
// block. Failures are logged only.
func (s *shared) publish(ctx context.Context, resource string, action ports.Action, id int64) {
	if s.publisher == nil {
		return
	}
	event := ports.RepositoryEvent{Resource: resource, Action: action, ID: id, At: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", event.Key()).Str("action", string(action)).Msg("failed to publish repository event")
	}
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan marks the span failed for anything other than an accepted outcome.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if outcome, ok := domain.OutcomeOf(err); ok {
			span.SetStatus(codes.Error, outcome.String())
		} else {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
