package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type userDocument struct {
	ID       int64   `bson:"_id"`
	Name     string  `bson:"name"`
	Password string  `bson:"password"`
	Email    *string `bson:"email"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{ID: int64(u.ID), Name: u.Name, Password: u.Password, Email: u.Email}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{ID: domain.UserID(d.ID), Name: d.Name, Password: d.Password, Email: d.Email}
}

// userFields maps ExistsByField names to document keys.
var userFields = map[string]string{
	ports.FieldUserName: "name",
}

type UserRepository struct {
	col *mongo.Collection
	seq ports.Sequence
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database, seq ports.Sequence) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), seq: seq}
}

func (r *UserRepository) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) (domain.UserID, error) {
	id, err := r.seq.Next(ctx, domain.ResourceUser)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(u)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return 0, duplicate(err, domain.ResourceUser, ports.FieldUserName)
	}
	u.ID = domain.UserID(id)
	return u.ID, nil
}

func (r *UserRepository) Replace(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": int64(u.ID)}, toUserDocument(u))
	if err != nil {
		return duplicate(err, domain.ResourceUser, ports.FieldUserName)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": int64(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Scan(ctx context.Context) iter.Seq2[*domain.User, error] {
	return scan(ctx, r.col, (*userDocument).toDomain)
}

func (r *UserRepository) ExistsByField(ctx context.Context, field string, value any) (bool, error) {
	key, ok := userFields[field]
	if !ok {
		return false, fmt.Errorf("user: field %q is not indexed", field)
	}
	return exists(ctx, r.col, key, value)
}

func (r *UserRepository) Reset(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}
