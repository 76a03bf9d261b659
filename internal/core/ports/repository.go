package ports

import (
	"context"
	"iter"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// Field names understood by ExistsByField.
const (
	FieldUserName      = "name"
	FieldNoteTitle     = "title"
	FieldNoteCreatedBy = "createdBy"
)

// UserRepository persists users. Implementations are safe for concurrent use and
// every single call is atomic; multi-call sequences are serialized by the service layer.
type UserRepository interface {
	// Get returns domain.ErrUserNotFound when no user has the id.
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
	// Insert allocates a fresh id, stores the user and sets u.ID.
	Insert(ctx context.Context, u *domain.User) (domain.UserID, error)
	// Replace overwrites every field of the stored user with u.ID.
	Replace(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id domain.UserID) error
	// Scan yields every stored user. Each call starts a fresh pass over the
	// current contents; it is not a snapshot taken at construction time.
	Scan(ctx context.Context) iter.Seq2[*domain.User, error]
	// ExistsByField reports whether any user has field == value (FieldUserName).
	ExistsByField(ctx context.Context, field string, value any) (bool, error)
	// Reset removes every user. Id allocation is not rewound.
	Reset(ctx context.Context) error
}

// NoteRepository persists notes with the same contract as UserRepository.
// ExistsByField understands FieldNoteTitle and FieldNoteCreatedBy (a domain.UserID).
type NoteRepository interface {
	Get(ctx context.Context, id domain.NoteID) (*domain.Note, error)
	Insert(ctx context.Context, n *domain.Note) (domain.NoteID, error)
	Replace(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id domain.NoteID) error
	Scan(ctx context.Context) iter.Seq2[*domain.Note, error]
	ExistsByField(ctx context.Context, field string, value any) (bool, error)
	Reset(ctx context.Context) error
}

// Sequence hands out ids per resource name. Values are strictly increasing and
// never handed out twice, even across deletes and resets.
type Sequence interface {
	Next(ctx context.Context, resource string) (int64, error)
}
