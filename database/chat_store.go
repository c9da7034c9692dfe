package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

const (
	chatCollection      = "chats"
	userChatsCollection = "userchats"
)

// MongoChatStore persists chats and the per-user chat index. Appends go
// through a single $push with $each so a batch lands whole or not at all,
// and two racing appends both land in some order instead of clobbering
// each other.
type MongoChatStore struct {
	db *mongo.Database
}

func NewMongoChatStore(db *mongo.Database) *MongoChatStore {
	return &MongoChatStore{db: db}
}

func (s *MongoChatStore) chats() *mongo.Collection {
	return s.db.Collection(chatCollection)
}

func (s *MongoChatStore) index() *mongo.Collection {
	return s.db.Collection(userChatsCollection)
}

func (s *MongoChatStore) Create(ctx context.Context, ownerID, initialText string) (*model.Chat, error) {
	now := time.Now()
	chat := &model.Chat{
		ID:     uuid.NewString(),
		UserID: ownerID,
		History: []model.Message{
			{Role: model.RoleUser, Parts: []model.Part{{Text: initialText}}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.chats().InsertOne(ctx, chat); err != nil {
		return nil, fmt.Errorf("%w: insert chat: %v", model.ErrPersistence, err)
	}
	return chat, nil
}

func (s *MongoChatStore) Get(ctx context.Context, id, ownerID string) (*model.Chat, error) {
	filter := bson.M{"_id": id, "user_id": ownerID}

	var chat model.Chat
	if err := s.chats().FindOne(ctx, filter).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrChatNotFound
		}
		return nil, fmt.Errorf("%w: find chat: %v", model.ErrPersistence, err)
	}
	return &chat, nil
}

func (s *MongoChatStore) AppendMessages(ctx context.Context, id, ownerID string, msgs []model.Message) (*model.Chat, error) {
	filter := bson.M{"_id": id, "user_id": ownerID}
	update := bson.M{
		"$push": bson.M{"history": bson.M{"$each": msgs}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var chat model.Chat
	if err := s.chats().FindOneAndUpdate(ctx, filter, update, opts).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrChatNotFound
		}
		return nil, fmt.Errorf("%w: append messages: %v", model.ErrPersistence, err)
	}
	return &chat, nil
}

func (s *MongoChatStore) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	filter := bson.M{"_id": id, "user_id": ownerID}

	res, err := s.chats().DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: delete chat: %v", model.ErrPersistence, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoChatStore) GetIndex(ctx context.Context, ownerID string) ([]model.ChatSummary, error) {
	var userChats model.UserChats
	err := s.index().FindOne(ctx, bson.M{"user_id": ownerID}).Decode(&userChats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []model.ChatSummary{}, nil
		}
		return nil, fmt.Errorf("%w: find userchats: %v", model.ErrPersistence, err)
	}
	return userChats.Chats, nil
}

func (s *MongoChatStore) PutIndexEntry(ctx context.Context, ownerID string, entry model.ChatSummary) error {
	filter := bson.M{"user_id": ownerID}
	update := bson.M{"$push": bson.M{"chats": entry}}
	opts := options.UpdateOne().SetUpsert(true)

	if _, err := s.index().UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("%w: push index entry: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *MongoChatStore) RemoveIndexEntry(ctx context.Context, ownerID, chatID string) error {
	filter := bson.M{"user_id": ownerID}
	update := bson.M{"$pull": bson.M{"chats": bson.M{"_id": chatID}}}

	if _, err := s.index().UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("%w: pull index entry: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *MongoChatStore) ListOwned(ctx context.Context, ownerID string) ([]model.ChatRef, error) {
	filter := bson.M{"user_id": ownerID}
	opts := options.Find().SetProjection(bson.M{
		"_id":        1,
		"updated_at": 1,
		"history":    bson.M{"$slice": 1},
	})

	cursor, err := s.chats().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list chats: %v", model.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var chats []model.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("%w: decode chats: %v", model.ErrPersistence, err)
	}

	refs := make([]model.ChatRef, len(chats))
	for i, c := range chats {
		ref := model.ChatRef{ID: c.ID, UpdatedAt: c.UpdatedAt}
		if len(c.History) > 0 && len(c.History[0].Parts) > 0 {
			ref.FirstText = c.History[0].Parts[0].Text
		}
		refs[i] = ref
	}
	return refs, nil
}

func (s *MongoChatStore) Owners(ctx context.Context) ([]string, error) {
	var owners []string
	res := s.index().Distinct(ctx, "user_id", bson.D{})
	if err := res.Decode(&owners); err != nil {
		return nil, fmt.Errorf("%w: distinct owners: %v", model.ErrPersistence, err)
	}
	return owners, nil
}
