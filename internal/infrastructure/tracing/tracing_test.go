package tracing

import (
	"context"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(Config{ServiceName: "notes-api"})
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInit_Jaeger(t *testing.T) {
	shutdown, err := Init(Config{Endpoint: "http://127.0.0.1:1/api/traces", ServiceName: "notes-api"})
	if err != nil {
		t.Fatal(err)
	}
	// nothing was recorded, so shutdown has nothing to export
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
