package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notes:seq:"

// Sequence allocates ids with INCR, one key per resource.
// Key format: notes:seq:<resource>
//
// Sharing one Redis between replicas keeps ids unique across processes even
// when each replica runs its own store.
type Sequence struct {
	client redis.Cmdable
}

// NewSequence wraps the given client. Keys are never expired or reset.
func NewSequence(client redis.Cmdable) *Sequence {
	return &Sequence{client: client}
}

func (s *Sequence) Next(ctx context.Context, resource string) (int64, error) {
	id, err := s.client.Incr(ctx, key(resource)).Result()
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", resource, err)
	}
	return id, nil
}

func key(resource string) string {
	return keyPrefix + resource
}
