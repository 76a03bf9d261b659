// Package memory is the default repository backend: process-local maps behind
// read/write mutexes. Nothing survives a restart.
package memory

import (
	"context"

	"github.com/notekeeper/notes-api/internal/core/ports"
)

type Store struct {
	Users *UserRepository
	Notes *NoteRepository
}

// NewStore builds both repositories on seq; a nil seq gets a fresh in-process Sequence.
func NewStore(seq ports.Sequence) *Store {
	if seq == nil {
		seq = NewSequence()
	}
	return &Store{
		Users: NewUserRepository(seq),
		Notes: NewNoteRepository(seq),
	}
}

// Reset empties notes before users. Id counters keep running.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.Notes.Reset(ctx); err != nil {
		return err
	}
	return s.Users.Reset(ctx)
}
