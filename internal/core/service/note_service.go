package service

import (
	"context"
	"fmt"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type NoteService struct {
	*shared
}

var _ ports.NoteService = (*NoteService)(nil)

func (s *NoteService) Create(ctx context.Context, in ports.NoteInput) (_ *domain.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.Create")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	creator, err := s.engine.ValidateNoteCreate(ctx, in)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	note := newNote(in, creator)
	_, err = s.repos.Notes.Insert(ctx, note)
	if err == nil {
		s.publish(ctx, domain.ResourceNote, ports.ActionCreated, int64(note.ID))
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create note")
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.log.Info().Int64("note_id", int64(note.ID)).Int64("created_by", int64(creator)).Msg("note created")
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, id domain.NoteID) (_ *domain.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.Get")
	defer func() { endSpan(span, err) }()

	return s.repos.Notes.Get(ctx, id)
}

// Creator returns the user the note's createdBy points at.
func (s *NoteService) Creator(ctx context.Context, id domain.NoteID) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "NoteService.Creator")
	defer func() { endSpan(span, err) }()

	note, err := s.repos.Notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repos.Users.Get(ctx, note.CreatedBy)
}

// Update replaces every field of the note. Absent optional fields are cleared.
func (s *NoteService) Update(ctx context.Context, id domain.NoteID, in ports.NoteInput) (_ *domain.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.Update")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	note, err := s.replace(ctx, id, in)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Patch overwrites only the fields present in p, then re-validates the merged note.
func (s *NoteService) Patch(ctx context.Context, id domain.NoteID, p ports.NotePatch) (_ *domain.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.Patch")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	current, err := s.repos.Notes.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	note, err := s.replace(ctx, id, mergeNote(current, p))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return note, nil
}

// replace must run under s.mu.
func (s *NoteService) replace(ctx context.Context, id domain.NoteID, in ports.NoteInput) (*domain.Note, error) {
	creator, err := s.engine.ValidateNoteUpdate(ctx, id, in)
	if err != nil {
		return nil, err
	}
	note := newNote(in, creator)
	note.ID = id
	if err := s.repos.Notes.Replace(ctx, note); err != nil {
		s.log.Error().Err(err).Int64("note_id", int64(id)).Msg("failed to update note")
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}
	s.log.Info().Int64("note_id", int64(id)).Msg("note updated")
	s.publish(ctx, domain.ResourceNote, ports.ActionUpdated, int64(id))
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id domain.NoteID) (err error) {
	ctx, span := startSpan(ctx, "NoteService.Delete")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	if err = s.engine.ValidateNoteDelete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}
	err = s.repos.Notes.Delete(ctx, id)
	if err == nil {
		s.publish(ctx, domain.ResourceNote, ports.ActionDeleted, int64(id))
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}

	s.log.Info().Int64("note_id", int64(id)).Msg("note deleted")
	return nil
}

func (s *NoteService) List(ctx context.Context) (_ []*domain.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.List")
	defer func() { endSpan(span, err) }()

	notes := []*domain.Note{}
	for n, err := range s.repos.Notes.Scan(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// newNote builds the stored form of a validated input. Created is required, so
// in.Created is non-nil here.
func newNote(in ports.NoteInput, creator domain.UserID) *domain.Note {
	return &domain.Note{
		Title:     in.Title,
		Body:      in.Body,
		Category:  in.Category,
		Created:   *in.Created,
		Reminder:  in.Reminder,
		CreatedBy: creator,
	}
}

func mergeNote(current *domain.Note, p ports.NotePatch) ports.NoteInput {
	created := current.Created
	in := ports.NoteInput{
		Title:     current.Title,
		Body:      current.Body,
		Category:  current.Category,
		Created:   &created,
		Reminder:  current.Reminder,
		CreatedBy: domain.Address("", domain.ResourceUser, int64(current.CreatedBy)),
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Body != nil {
		in.Body = p.Body
	}
	if p.Category != nil {
		in.Category = p.Category
	}
	if p.Created != nil {
		in.Created = p.Created
	}
	if p.Reminder != nil {
		in.Reminder = p.Reminder
	}
	if p.CreatedBy != nil {
		in.CreatedBy = *p.CreatedBy
	}
	return in
}
