package memory

import (
	"context"
	"iter"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// NoteRepository indexes notes by title and by creator, so the
// "is this user still referenced" question is a map lookup.
type NoteRepository struct {
	t *table[domain.Note]
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository(seq ports.Sequence) *NoteRepository {
	return &NoteRepository{t: newTable(
		domain.ResourceNote, seq, domain.ErrNoteNotFound,
		(*domain.Note).Clone,
		func(n *domain.Note) int64 { return int64(n.ID) },
		func(n *domain.Note, id int64) { n.ID = domain.NoteID(id) },
		map[string]func(*domain.Note) any{
			ports.FieldNoteTitle:     func(n *domain.Note) any { return n.Title },
			ports.FieldNoteCreatedBy: func(n *domain.Note) any { return n.CreatedBy },
		},
	)}
}

func (r *NoteRepository) Get(_ context.Context, id domain.NoteID) (*domain.Note, error) {
	return r.t.get(int64(id))
}

func (r *NoteRepository) Insert(ctx context.Context, n *domain.Note) (domain.NoteID, error) {
	id, err := r.t.insert(ctx, n)
	return domain.NoteID(id), err
}

func (r *NoteRepository) Replace(_ context.Context, n *domain.Note) error {
	return r.t.replace(n)
}

func (r *NoteRepository) Delete(_ context.Context, id domain.NoteID) error {
	return r.t.delete(int64(id))
}

func (r *NoteRepository) Scan(ctx context.Context) iter.Seq2[*domain.Note, error] {
	return r.t.scan(ctx)
}

func (r *NoteRepository) ExistsByField(_ context.Context, field string, value any) (bool, error) {
	if field == ports.FieldNoteCreatedBy {
		value = asUserID(value)
	}
	return r.t.exists(field, value)
}

func (r *NoteRepository) Reset(_ context.Context) error {
	r.t.reset()
	return nil
}

// asUserID normalizes integer creator ids so index lookups match on dynamic type.
func asUserID(v any) any {
	switch id := v.(type) {
	case int64:
		return domain.UserID(id)
	case int:
		return domain.UserID(id)
	default:
		return v
	}
}
