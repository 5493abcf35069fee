package blobstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per key: {key: <key>, data: <binary>}.
// Each Set is a single-document upsert, which Mongo applies atomically.
type MongoStore struct {
	col *mongo.Collection
}

type mongoBlob struct {
	Key  string           `bson:"key"`
	Data primitive.Binary `bson:"data"`
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	// index on "key" for fast lookups (key is expected unique)
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoStore{col: col}
}

func (m *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var b mongoBlob
	err := m.col.FindOne(ctx, bson.M{"key": key}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b.Data.Data, nil
}

func (m *MongoStore) Set(ctx context.Context, key string, data []byte) error {
	filter := bson.M{"key": key}
	update := bson.M{"$set": bson.M{"key": key, "data": primitive.Binary{Data: data}}}
	opts := options.Update().SetUpsert(true)
	if _, err := m.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("blob set: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"key": key})
	return err
}
