package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

var noteColumns = map[string]string{
	ports.FieldNoteTitle:     "title",
	ports.FieldNoteCreatedBy: "created_by_id",
}

type NoteRepository struct {
	db  *gorm.DB
	seq ports.Sequence
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository(db *gorm.DB, seq ports.Sequence) *NoteRepository {
	return &NoteRepository{db: db, seq: seq}
}

func (r *NoteRepository) Get(ctx context.Context, id domain.NoteID) (*domain.Note, error) {
	var m noteModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *NoteRepository) Insert(ctx context.Context, n *domain.Note) (domain.NoteID, error) {
	id, err := r.seq.Next(ctx, domain.ResourceNote)
	if err != nil {
		return 0, err
	}
	m := toNoteModel(n)
	m.ID = id
	// CreatedBy is only there for the foreign key; never upsert the user row.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return 0, translate(err, domain.ResourceNote, ports.FieldNoteTitle)
	}
	n.ID = domain.NoteID(id)
	return n.ID, nil
}

func (r *NoteRepository) Replace(ctx context.Context, n *domain.Note) error {
	res := r.db.WithContext(ctx).Model(&noteModel{}).Where("id = ?", int64(n.ID)).Updates(map[string]any{
		"title":         n.Title,
		"body":          n.Body,
		"category":      n.Category,
		"created":       n.Created,
		"reminder":      n.Reminder,
		"created_by_id": int64(n.CreatedBy),
	})
	if res.Error != nil {
		return translate(res.Error, domain.ResourceNote, ports.FieldNoteTitle)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id domain.NoteID) error {
	res := r.db.WithContext(ctx).Delete(&noteModel{}, int64(id))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Scan(ctx context.Context) iter.Seq2[*domain.Note, error] {
	return scanRows(ctx, r.db, (*noteModel).toDomain)
}

func (r *NoteRepository) ExistsByField(ctx context.Context, field string, value any) (bool, error) {
	col, ok := noteColumns[field]
	if !ok {
		return false, fmt.Errorf("note: field %q is not indexed", field)
	}
	switch v := value.(type) {
	case domain.UserID:
		value = int64(v)
	case int:
		value = int64(v)
	}
	return exists(ctx, r.db, &noteModel{}, col, value)
}

func (r *NoteRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&noteModel{}).Error
}
