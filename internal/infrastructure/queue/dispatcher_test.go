package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/api/metrics"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type recordingSink struct {
	mu     sync.Mutex
	events []ports.RepositoryEvent
	fail   bool
}

func (s *recordingSink) Publish(_ context.Context, e ports.RepositoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker down")
	}
	s.events = append(s.events, e)
	return nil
}

func TestDispatcher_PreservesPerKeyOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(4, sink, zerolog.Nop())
	d.Start(context.Background())

	actions := []ports.Action{ports.ActionCreated, ports.ActionUpdated, ports.ActionUpdated, ports.ActionDeleted}
	for id := int64(1); id <= 10; id++ {
		for _, a := range actions {
			if err := d.Publish(context.Background(), ports.RepositoryEvent{Resource: "note", Action: a, ID: id}); err != nil {
				t.Fatalf("publish: %v", err)
			}
		}
	}
	d.Close()

	if len(sink.events) != 40 {
		t.Fatalf("expected 40 delivered events, got %d", len(sink.events))
	}
	seen := map[int64][]ports.Action{}
	for _, e := range sink.events {
		seen[e.ID] = append(seen[e.ID], e.Action)
	}
	for id, got := range seen {
		for i := range actions {
			if got[i] != actions[i] {
				t.Fatalf("note %d: events out of order: %v", id, got)
			}
		}
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, &recordingSink{}, zerolog.Nop())
	// workers not started, so the channel fills up
	before := testutil.ToFloat64(metrics.EventsErrorsTotal.WithLabelValues("queue_full"))
	for i := range channelBuffer {
		if err := d.Publish(context.Background(), ports.RepositoryEvent{Resource: "user", ID: int64(i)}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	err := d.Publish(context.Background(), ports.RepositoryEvent{Resource: "user", ID: 9999})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.EventsErrorsTotal.WithLabelValues("queue_full")); got != before+1 {
		t.Fatalf("queue_full counter = %v, want %v", got, before+1)
	}
}

func TestDispatcher_SinkErrorCounted(t *testing.T) {
	d := NewDispatcher(2, &recordingSink{fail: true}, zerolog.Nop())
	d.Start(context.Background())
	before := testutil.ToFloat64(metrics.EventsErrorsTotal.WithLabelValues("sink_error"))

	_ = d.Publish(context.Background(), ports.RepositoryEvent{Resource: "user", Action: ports.ActionCreated, ID: 1})
	d.Close()

	if got := testutil.ToFloat64(metrics.EventsErrorsTotal.WithLabelValues("sink_error")); got != before+1 {
		t.Fatalf("sink_error counter = %v, want %v", got, before+1)
	}
}

func TestDispatcher_PublishAfterClose(t *testing.T) {
	d := NewDispatcher(1, &recordingSink{}, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()
	if err := d.Publish(context.Background(), ports.RepositoryEvent{Resource: "user", ID: 1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestShardIndex_Stable(t *testing.T) {
	d := NewDispatcher(8, &recordingSink{}, zerolog.Nop())
	key := ports.RepositoryEvent{Resource: "note", ID: 42}.Key()
	first := d.shardIndex(key)
	for range 10 {
		if d.shardIndex(key) != first {
			t.Fatal("shard index must be deterministic")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
