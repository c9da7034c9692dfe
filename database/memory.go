package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// In-memory store implementations with the same semantics as the Mongo
// ones. Used by tests and by local runs without a database.

type MemoryChatStore struct {
	mu    sync.RWMutex
	chats map[string]*model.Chat
	index map[string][]model.ChatSummary // ownerID -> summaries
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		chats: make(map[string]*model.Chat),
		index: make(map[string][]model.ChatSummary),
	}
}

func (s *MemoryChatStore) Create(_ context.Context, ownerID, initialText string) (*model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.chats[chat.ID] = chat
	return copyChat(chat), nil
}

func (s *MemoryChatStore) Get(_ context.Context, id, ownerID string) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return nil, model.ErrChatNotFound
	}
	return copyChat(chat), nil
}

func (s *MemoryChatStore) AppendMessages(_ context.Context, id, ownerID string, msgs []model.Message) (*model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return nil, model.ErrChatNotFound
	}
	chat.History = append(chat.History, msgs...)
	chat.UpdatedAt = time.Now()
	return copyChat(chat), nil
}

func (s *MemoryChatStore) Delete(_ context.Context, id, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return false, nil
	}
	delete(s.chats, id)
	return true, nil
}

func (s *MemoryChatStore) GetIndex(_ context.Context, ownerID string) ([]model.ChatSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.index[ownerID]
	out := make([]model.ChatSummary, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemoryChatStore) PutIndexEntry(_ context.Context, ownerID string, entry model.ChatSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index[ownerID] = append(s.index[ownerID], entry)
	return nil
}

func (s *MemoryChatStore) RemoveIndexEntry(_ context.Context, ownerID, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.index[ownerID]
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != chatID {
			kept = append(kept, e)
		}
	}
	s.index[ownerID] = kept
	return nil
}

func (s *MemoryChatStore) ListOwned(_ context.Context, ownerID string) ([]model.ChatRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := []model.ChatRef{}
	for _, chat := range s.chats {
		if chat.UserID != ownerID {
			continue
		}
		ref := model.ChatRef{ID: chat.ID, UpdatedAt: chat.UpdatedAt}
		if len(chat.History) > 0 && len(chat.History[0].Parts) > 0 {
			ref.FirstText = chat.History[0].Parts[0].Text
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *MemoryChatStore) Owners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0, len(s.index))
	for owner := range s.index {
		owners = append(owners, owner)
	}
	return owners, nil
}

func copyChat(chat *model.Chat) *model.Chat {
	out := *chat
	out.History = make([]model.Message, len(chat.History))
	copy(out.History, chat.History)
	return &out
}

type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*model.Document // id -> document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]*model.Document)}
}

func (s *MemoryDocumentStore) Insert(_ context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	s.docs[doc.ID] = &stored
	return nil
}

func (s *MemoryDocumentStore) ListByOwner(_ context.Context, ownerID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []model.Document{}
	for _, d := range s.docs {
		if d.UserID == ownerID {
			docs = append(docs, *d)
		}
	}
	return docs, nil
}

func (s *MemoryDocumentStore) FindByPath(_ context.Context, ownerID, path string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if d.UserID == ownerID && d.Path == path {
			found := *d
			return &found, nil
		}
	}
	return nil, model.ErrDocumentNotFound
}

func (s *MemoryDocumentStore) DeleteByPath(_ context.Context, ownerID, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.docs {
		if d.UserID == ownerID && d.Path == path {
			delete(s.docs, id)
			return true, nil
		}
	}
	return false, nil
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, email, hashedPassword string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	out := *user
	return &out, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
