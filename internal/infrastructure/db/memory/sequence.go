package memory

import (
	"context"
	"errors"
	"math"
	"sync"
)

var ErrSequenceExhausted = errors.New("id sequence exhausted")

// Sequence is a process-local ports.Sequence. Counters survive Store.Reset.
type Sequence struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewSequence() *Sequence {
	return &Sequence{last: make(map[string]int64)}
}

func (s *Sequence) Next(_ context.Context, resource string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last[resource] == math.MaxInt64 {
		return 0, ErrSequenceExhausted
	}
	s.last[resource]++
	return s.last[resource], nil
}
