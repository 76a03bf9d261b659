package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/core/ports"
)

func TestMessage(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := message(ports.RepositoryEvent{Resource: "note", Action: ports.ActionUpdated, ID: 7, At: at})
	if err != nil {
		t.Fatal(err)
	}
	if string(msg.Key) != "note/7" {
		t.Fatalf("key = %q", msg.Key)
	}
	var got ports.RepositoryEvent
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatal(err)
	}
	if got.Action != ports.ActionUpdated || got.ID != 7 || !got.At.Equal(at) {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	err := p.Publish(context.Background(), ports.RepositoryEvent{Resource: "user", Action: ports.ActionDeleted, ID: 3})
	if err != nil {
		t.Fatal(err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["resource"] != "user" || line["action"] != "deleted" || line["id"] != float64(3) {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestKafkaPublisher_PingNoBrokers(t *testing.T) {
	p := NewKafkaPublisher(nil, "t")
	if err := p.Ping(context.Background()); err == nil {
		t.Fatal("expected error without brokers")
	}
}
