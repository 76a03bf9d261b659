package ports

import (
	"context"
	"time"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// UserInput is a full user candidate, used for create and replace.
type UserInput struct {
	Name     string  `validate:"required"`
	Password string  `validate:"required"`
	Email    *string
}

// UserPatch carries only the fields a partial update changes; nil means keep.
type UserPatch struct {
	Name     *string
	Password *string
	Email    *string
}

// NoteInput is a full note candidate. CreatedBy is the address of the owning user.
type NoteInput struct {
	Title     string     `validate:"required"`
	Body      *string
	Category  *int64
	Created   *time.Time `validate:"required"`
	Reminder  *time.Time
	CreatedBy string     `validate:"required"`
}

// NotePatch carries only the fields a partial update changes; nil means keep.
type NotePatch struct {
	Title     *string
	Body      *string
	Category  *int64
	Created   *time.Time
	Reminder  *time.Time
	CreatedBy *string
}

// UserService exposes user use cases.
type UserService interface {
	Create(ctx context.Context, in UserInput) (*domain.User, error)
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
	Update(ctx context.Context, id domain.UserID, in UserInput) (*domain.User, error)
	Patch(ctx context.Context, id domain.UserID, p UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id domain.UserID) error
	List(ctx context.Context) ([]*domain.User, error)
}

// NoteService exposes note use cases.
type NoteService interface {
	Create(ctx context.Context, in NoteInput) (*domain.Note, error)
	Get(ctx context.Context, id domain.NoteID) (*domain.Note, error)
	Update(ctx context.Context, id domain.NoteID, in NoteInput) (*domain.Note, error)
	Patch(ctx context.Context, id domain.NoteID, p NotePatch) (*domain.Note, error)
	Delete(ctx context.Context, id domain.NoteID) error
	List(ctx context.Context) ([]*domain.Note, error)
	// Creator returns the user a note references.
	Creator(ctx context.Context, id domain.NoteID) (*domain.User, error)
}
