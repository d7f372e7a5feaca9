package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
)

// LayoutsCollection is the collection layouts are stored in.
const LayoutsCollection = "layouts"

// MongoStore persists layouts in MongoDB.
type MongoStore struct {
	client  *mongo.Client
	layouts *mongo.Collection
}

// Connect dials uri and pings the server before returning.
func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return NewMongoStore(client, database), nil
}

// NewMongoStore wraps a connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client:  client,
		layouts: client.Database(database).Collection(LayoutsCollection),
	}
}

// SaveLayout upserts l by id.
func (s *MongoStore) SaveLayout(ctx context.Context, l graph.Layout) error {
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "layout id is required")
	}
	_, err := s.layouts.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", l.ID)
	}
	return nil
}

// LoadLayout fetches the layout stored under id.
func (s *MongoStore) LoadLayout(ctx context.Context, id string) (graph.Layout, error) {
	var l graph.Layout
	err := s.layouts.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	switch {
	case err == mongo.ErrNoDocuments:
		return graph.Layout{}, errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	case err != nil:
		return graph.Layout{}, errors.Wrap(errors.ErrCodeStorage, err, "load layout %s", id)
	}
	return l, nil
}

// ListLayouts returns the newest layouts first; limit <= 0 means all.
func (s *MongoStore) ListLayouts(ctx context.Context, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"root": 1, "graph_hash": 1, "positions": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.layouts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var l graph.Layout
		if err := cur.Decode(&l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout")
		}
		out = append(out, summarize(l))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate layouts: %w", err)
	}
	return out, nil
}

// DeleteLayout removes id.
func (s *MongoStore) DeleteLayout(ctx context.Context, id string) error {
	res, err := s.layouts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
