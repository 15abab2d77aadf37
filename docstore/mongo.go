package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nisimpson/dynaroute"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "dynaroute"

// Mongo maps each collection onto a MongoDB collection of the same name.
// The record id doubles as the document _id.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ dynaroute.Store = (*Mongo)(nil)

// NewMongo connects to uri and pings the primary.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Get(ctx context.Context, collection, key string) (dynaroute.Record, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}

	var doc bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(collection, key)
	}
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}
	return fromDocument(doc), nil
}

func (m *Mongo) Put(ctx context.Context, collection string, rec dynaroute.Record) error {
	if err := requireKey(rec.ID()); err != nil {
		return err
	}

	doc := bson.M(rec.Clone())
	doc["_id"] = rec.ID()

	_, err := m.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": rec.ID()}, doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return storeErr(dynaroute.StorePut, collection, rec.ID(), err)
	}
	return nil
}

func (m *Mongo) Scan(ctx context.Context, collection string) ([]dynaroute.Record, error) {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}

	records := make([]dynaroute.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromDocument(doc))
	}
	return records, nil
}

func (m *Mongo) Delete(ctx context.Context, collection, key string) error {
	if err := requireKey(key); err != nil {
		return err
	}
	if _, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return storeErr(dynaroute.StoreDelete, collection, key, err)
	}
	return nil
}

func fromDocument(doc bson.M) dynaroute.Record {
	rec := make(dynaroute.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		rec[k] = normalizeBSON(v)
	}
	return rec
}

// normalizeBSON converts driver types to the shapes encoding/json produces.
func normalizeBSON(v any) any {
	switch x := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeBSON(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeBSON(e)
		}
		return out
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeBSON(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeBSON(e)
		}
		return out
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		return x
	}
}
