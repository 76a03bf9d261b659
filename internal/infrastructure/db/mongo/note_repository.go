package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type noteDocument struct {
	ID        int64      `bson:"_id"`
	Title     string     `bson:"title"`
	Body      *string    `bson:"body"`
	Category  *int64     `bson:"category"`
	Created   time.Time  `bson:"created"`
	Reminder  *time.Time `bson:"reminder"`
	CreatedBy int64      `bson:"created_by"`
}

func toNoteDocument(n *domain.Note) noteDocument {
	return noteDocument{
		ID:        int64(n.ID),
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		Created:   n.Created,
		Reminder:  n.Reminder,
		CreatedBy: int64(n.CreatedBy),
	}
}

// toDomain returns times in UTC; BSON dates carry millisecond precision only.
func (d *noteDocument) toDomain() *domain.Note {
	n := &domain.Note{
		ID:        domain.NoteID(d.ID),
		Title:     d.Title,
		Body:      d.Body,
		Category:  d.Category,
		Created:   d.Created.UTC(),
		CreatedBy: domain.UserID(d.CreatedBy),
	}
	if d.Reminder != nil {
		r := d.Reminder.UTC()
		n.Reminder = &r
	}
	return n
}

var noteFields = map[string]string{
	ports.FieldNoteTitle:     "title",
	ports.FieldNoteCreatedBy: "created_by",
}

type NoteRepository struct {
	col *mongo.Collection
	seq ports.Sequence
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

func NewNoteRepository(db *mongo.Database, seq ports.Sequence) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes), seq: seq}
}

func (r *NoteRepository) Get(ctx context.Context, id domain.NoteID) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc noteDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) Insert(ctx context.Context, n *domain.Note) (domain.NoteID, error) {
	id, err := r.seq.Next(ctx, domain.ResourceNote)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toNoteDocument(n)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return 0, duplicate(err, domain.ResourceNote, ports.FieldNoteTitle)
	}
	n.ID = domain.NoteID(id)
	return n.ID, nil
}

func (r *NoteRepository) Replace(ctx context.Context, n *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": int64(n.ID)}, toNoteDocument(n))
	if err != nil {
		return duplicate(err, domain.ResourceNote, ports.FieldNoteTitle)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id domain.NoteID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Scan(ctx context.Context) iter.Seq2[*domain.Note, error] {
	return scan(ctx, r.col, (*noteDocument).toDomain)
}

func (r *NoteRepository) ExistsByField(ctx context.Context, field string, value any) (bool, error) {
	key, ok := noteFields[field]
	if !ok {
		return false, fmt.Errorf("note: field %q is not indexed", field)
	}
	if id, ok := value.(domain.UserID); ok {
		value = int64(id)
	}
	return exists(ctx, r.col, key, value)
}

func (r *NoteRepository) Reset(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}
