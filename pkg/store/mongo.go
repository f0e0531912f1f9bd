package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/observability"
)

// Default MongoDB settings.
const (
	DefaultMongoDatabase   = "seqline"
	DefaultMongoCollection = "documents"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoConfig configures the MongoDB-backed store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database name. Defaults to DefaultMongoDatabase.
	Database string

	// Collection name. Defaults to DefaultMongoCollection.
	Collection string
}

// Mongo is a MongoDB-backed document store. Each diagram document maps to
// one collection document keyed by the diagram ID (_id).
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies connectivity.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	connCtx, cancel := context.WithTimeout(ctx, DefaultMongoTimeout)
	defer cancel()
	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, id string) (*diagram.Document, error) {
	var d diagram.Document
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnLoad(ctx, "mongo", id, false)
		return nil, nil
	}
	if err != nil {
		observability.Store().OnError(ctx, "mongo", "get", err)
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	if err := d.Validate(); err != nil {
		observability.Store().OnError(ctx, "mongo", "get", err)
		return nil, fmt.Errorf("validate document %s: %w", id, err)
	}
	observability.Store().OnLoad(ctx, "mongo", id, true)
	return &d, nil
}

func (m *Mongo) Put(ctx context.Context, d *diagram.Document) error {
	if d.ID == "" {
		return ErrMissingID
	}
	data, err := bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, bson.Raw(data),
		options.Replace().SetUpsert(true))
	if err != nil {
		observability.Store().OnError(ctx, "mongo", "put", err)
		return fmt.Errorf("mongo replace: %w", err)
	}
	observability.Store().OnSave(ctx, "mongo", d.ID, len(data))
	return nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		observability.Store().OnError(ctx, "mongo", "delete", err)
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (m *Mongo) List(ctx context.Context) ([]string, error) {
	cursor, err := m.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		observability.Store().OnError(ctx, "mongo", "list", err)
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		ids = append(ids, row.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	return ids, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultMongoTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
