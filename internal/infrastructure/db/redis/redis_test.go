package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := key("note"); got != "notes:seq:note" {
		t.Fatalf("got %q", got)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil || !strings.Contains(err.Error(), "redis ping") {
		t.Fatalf("expected ping failure, got %v", err)
	}
}
