package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/errors"
)

// MongoStore persists graphs in a MongoDB collection, one document per
// graph name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDocument is the collection schema.
type mongoDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Blob      []byte    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and uses the given database's "graphs"
// collection. The connection is verified with a ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("graphs"),
	}, nil
}

// Save upserts the graph under the given name.
func (s *MongoStore) Save(ctx context.Context, name string, g *dot.Graph) error {
	blob, err := dot.Encode(g)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode graph %s", name)
	}

	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"blob":       blob,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"name": name}, update, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save graph %s", name)
	}
	return nil
}

// Load reads the graph stored under the given name.
func (s *MongoStore) Load(ctx context.Context, name string) (*dot.Graph, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load graph %s", name)
	}

	g, err := dot.Decode(doc.Blob)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode graph %s", name)
	}
	return g, nil
}

// List returns the names of all stored graphs, sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.M{"name": 1})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list graphs")
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode graph document")
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list graphs")
	}
	return names, nil
}

// Delete removes the graph stored under the given name.
// Deleting a missing name is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete graph %s", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
