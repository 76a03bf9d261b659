package mongo

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers    = "users"
	collectionNotes    = "notes"
	collectionCounters = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique indexes backing name and title uniqueness,
// plus the created_by index the user-delete check reads.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err := db.Collection(collectionNotes).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("notes indexes: %w", err)
	}
	return nil
}

// scan streams a collection in _id order, decoding each document with convert.
// The cursor is opened when iteration starts, so every pass sees current data.
func scan[D any, T any](ctx context.Context, col *mongo.Collection, convert func(*D) *T) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		cur, err := col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			yield(nil, fmt.Errorf("scan %s: %w", col.Name(), err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc D
			if err := cur.Decode(&doc); err != nil {
				yield(nil, fmt.Errorf("decode %s: %w", col.Name(), err))
				return
			}
			if !yield(convert(&doc), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, fmt.Errorf("scan %s: %w", col.Name(), err))
		}
	}
}

func exists(ctx context.Context, col *mongo.Collection, key string, value any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, bson.M{key: value}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// duplicate turns a unique index violation into the same Conflict the
// constraint engine would have reported.
func duplicate(err error, resource, field string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.Violation{
			Outcome:  domain.Conflict,
			Resource: resource,
			Field:    field,
			Err:      domain.ErrDuplicateValue,
		}
	}
	return err
}
