package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

const userCollection = "users"

type MongoUserStore struct {
	db *mongo.Database
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{db: db}
}

func (s *MongoUserStore) users() *mongo.Collection {
	return s.db.Collection(userCollection)
}

func (s *MongoUserStore) Create(ctx context.Context, email, hashedPassword string) (*model.User, error) {
	now := time.Now()
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: insert user: %v", model.ErrPersistence, err)
	}
	return user, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user by email: %v", model.ErrPersistence, err)
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user by id: %v", model.ErrPersistence, err)
	}
	return &user, nil
}
