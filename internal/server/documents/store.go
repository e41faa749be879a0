// Package documents implements the server-side document store: MongoDB-backed
// collections of JSON documents plus a hub that pushes full-snapshot change
// notifications to subscribers.
package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ferreadmin/internal/common"
)

// Store abstracts document persistence. Implementations assign document ids
// on insert; the id travels in the JSON body under the "id" key.
type Store interface {
	Insert(ctx context.Context, collection string, doc json.RawMessage) (string, error)
	Replace(ctx context.Context, collection string, id string, doc json.RawMessage) error
	Remove(ctx context.Context, collection string, id string) error
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
}

// MongoStore persists documents in MongoDB collections. The Mongo _id is
// exposed to clients as an "id" string field in the JSON body.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc json.RawMessage) (string, error) {
	body, err := decodeBody(doc)
	if err != nil {
		return "", err
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, body)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return oid.Hex(), nil
}

func (s *MongoStore) Replace(ctx context.Context, collection string, id string, doc json.RawMessage) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}

	body, err := decodeBody(doc)
	if err != nil {
		return err
	}

	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": oid}, body)
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (s *MongoStore) Remove(ctx context.Context, collection string, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []json.RawMessage{}
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		if oid, ok := m["_id"].(primitive.ObjectID); ok {
			m["id"] = oid.Hex()
		}
		delete(m, "_id")

		b, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}
		docs = append(docs, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}

	return docs, nil
}

// decodeBody parses a JSON document into a bson map, stripping the "id"
// field so the store-assigned _id stays authoritative.
func decodeBody(doc json.RawMessage) (bson.M, error) {
	var body bson.M
	if err := json.Unmarshal(doc, &body); err != nil {
		return nil, fmt.Errorf("%w: cuerpo JSON inválido", common.ErrorValidation)
	}
	delete(body, "id")
	delete(body, "_id")
	return body, nil
}
