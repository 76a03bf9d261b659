// Package constraint decides whether a proposed create, update or delete is legal.
//
// The Engine only reads from the repositories. Checks run in a fixed order and the
// first failing one wins:
//
//	required fields -> uniqueness -> referential resolution -> temporal ordering
//
// A rejected mutation is reported as a *domain.Violation; nil means Accepted.
// Callers that need the decision to stay valid until they write must serialize
// validate-and-mutate themselves.
package constraint

import (
	"context"
	"errors"
	"fmt"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type Engine struct {
	users    ports.UserRepository
	notes    ports.NoteRepository
	required *requiredChecker
}

func NewEngine(users ports.UserRepository, notes ports.NoteRepository) *Engine {
	return &Engine{users: users, notes: notes, required: newRequiredChecker()}
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (e *Engine) ValidateUserCreate(ctx context.Context, in ports.UserInput) error {
	if err := e.required.check(domain.ResourceUser, in); err != nil {
		return err
	}
	return e.uniqueUserName(ctx, in.Name)
}

// ValidateUserUpdate re-applies the create checks against the user stored under id.
// Keeping the current name never collides with the record itself.
func (e *Engine) ValidateUserUpdate(ctx context.Context, id domain.UserID, in ports.UserInput) error {
	current, err := e.users.Get(ctx, id)
	if err != nil {
		return notFound(domain.ResourceUser, err)
	}
	if err := e.required.check(domain.ResourceUser, in); err != nil {
		return err
	}
	if in.Name == current.Name {
		return nil
	}
	return e.uniqueUserName(ctx, in.Name)
}

// ValidateUserDelete blocks removal while any note still points at the user.
func (e *Engine) ValidateUserDelete(ctx context.Context, id domain.UserID) error {
	if _, err := e.users.Get(ctx, id); err != nil {
		return notFound(domain.ResourceUser, err)
	}

	referenced, err := e.notes.ExistsByField(ctx, ports.FieldNoteCreatedBy, id)
	if err != nil {
		return fmt.Errorf("check note references: %w", err)
	}
	if referenced {
		return &domain.Violation{
			Outcome:  domain.ReferentialBlock,
			Resource: domain.ResourceUser,
			Err:      domain.ErrStillReferenced,
		}
	}
	return nil
}

func (e *Engine) uniqueUserName(ctx context.Context, name string) error {
	taken, err := e.users.ExistsByField(ctx, ports.FieldUserName, name)
	if err != nil {
		return fmt.Errorf("check user name: %w", err)
	}
	if taken {
		return &domain.Violation{
			Outcome:  domain.Conflict,
			Resource: domain.ResourceUser,
			Field:    ports.FieldUserName,
			Err:      domain.ErrDuplicateValue,
		}
	}
	return nil
}

// ── Notes ─────────────────────────────────────────────────────────────────────

// ValidateNoteCreate returns the id of the user in.CreatedBy resolves to.
func (e *Engine) ValidateNoteCreate(ctx context.Context, in ports.NoteInput) (domain.UserID, error) {
	if err := e.required.check(domain.ResourceNote, in); err != nil {
		return 0, err
	}
	if err := e.uniqueNoteTitle(ctx, in.Title); err != nil {
		return 0, err
	}
	return e.resolveAndOrder(ctx, in)
}

// ValidateNoteUpdate re-applies the create checks against the note stored under id.
func (e *Engine) ValidateNoteUpdate(ctx context.Context, id domain.NoteID, in ports.NoteInput) (domain.UserID, error) {
	current, err := e.notes.Get(ctx, id)
	if err != nil {
		return 0, notFound(domain.ResourceNote, err)
	}
	if err := e.required.check(domain.ResourceNote, in); err != nil {
		return 0, err
	}
	if in.Title != current.Title {
		if err := e.uniqueNoteTitle(ctx, in.Title); err != nil {
			return 0, err
		}
	}
	return e.resolveAndOrder(ctx, in)
}

func (e *Engine) ValidateNoteDelete(ctx context.Context, id domain.NoteID) error {
	if _, err := e.notes.Get(ctx, id); err != nil {
		return notFound(domain.ResourceNote, err)
	}
	return nil
}

func (e *Engine) uniqueNoteTitle(ctx context.Context, title string) error {
	taken, err := e.notes.ExistsByField(ctx, ports.FieldNoteTitle, title)
	if err != nil {
		return fmt.Errorf("check note title: %w", err)
	}
	if taken {
		return &domain.Violation{
			Outcome:  domain.Conflict,
			Resource: domain.ResourceNote,
			Field:    ports.FieldNoteTitle,
			Err:      domain.ErrDuplicateValue,
		}
	}
	return nil
}

// resolveAndOrder runs the referential then the temporal check.
func (e *Engine) resolveAndOrder(ctx context.Context, in ports.NoteInput) (domain.UserID, error) {
	creator, err := e.resolveCreator(ctx, in.CreatedBy)
	if err != nil {
		return 0, err
	}

	candidate := domain.Note{Created: *in.Created, Reminder: in.Reminder}
	if !candidate.ReminderAfterCreated() {
		return 0, &domain.Violation{
			Outcome:  domain.Invalid,
			Resource: domain.ResourceNote,
			Field:    "reminder",
			Err:      domain.ErrReminderNotAfterCreated,
		}
	}
	return creator, nil
}

func (e *Engine) resolveCreator(ctx context.Context, address string) (domain.UserID, error) {
	unresolved := &domain.Violation{
		Outcome:  domain.ReferentialBlock,
		Resource: domain.ResourceNote,
		Field:    ports.FieldNoteCreatedBy,
		Err:      domain.ErrUnresolvedReference,
	}

	raw, ok := domain.ParseAddress(address, domain.ResourceUser)
	if !ok {
		return 0, unresolved
	}
	id := domain.UserID(raw)
	if _, err := e.users.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, unresolved
		}
		return 0, fmt.Errorf("resolve createdBy: %w", err)
	}
	return id, nil
}

// notFound converts a repository miss into a NotFound violation and passes other errors through.
func notFound(resource string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Violation{Outcome: domain.NotFound, Resource: resource, Err: err}
	}
	return fmt.Errorf("load %s: %w", resource, err)
}
