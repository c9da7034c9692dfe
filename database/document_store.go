package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

const documentCollection = "documents"

type MongoDocumentStore struct {
	db *mongo.Database
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{db: db}
}

func (s *MongoDocumentStore) documents() *mongo.Collection {
	return s.db.Collection(documentCollection)
}

func (s *MongoDocumentStore) Insert(ctx context.Context, doc *model.Document) error {
	if _, err := s.documents().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert document: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *MongoDocumentStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	cursor, err := s.documents().Find(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("%w: find documents: %v", model.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	docs := []model.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode documents: %v", model.ErrPersistence, err)
	}
	return docs, nil
}

func (s *MongoDocumentStore) FindByPath(ctx context.Context, ownerID, path string) (*model.Document, error) {
	filter := bson.M{"user_id": ownerID, "path": path}

	var doc model.Document
	if err := s.documents().FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: find document: %v", model.ErrPersistence, err)
	}
	return &doc, nil
}

func (s *MongoDocumentStore) DeleteByPath(ctx context.Context, ownerID, path string) (bool, error) {
	filter := bson.M{"user_id": ownerID, "path": path}

	res, err := s.documents().DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: delete document: %v", model.ErrPersistence, err)
	}
	return res.DeletedCount > 0, nil
}
