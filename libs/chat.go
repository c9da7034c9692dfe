package libs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// TitleLimit is how many characters of the first user message become the
// chat's summary title.
const TitleLimit = 40

// ChatStore is the persistence contract for chats and the per-user index.
type ChatStore interface {
	Create(ctx context.Context, ownerID, initialText string) (*model.Chat, error)
	Get(ctx context.Context, id, ownerID string) (*model.Chat, error)
	AppendMessages(ctx context.Context, id, ownerID string, msgs []model.Message) (*model.Chat, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)

	GetIndex(ctx context.Context, ownerID string) ([]model.ChatSummary, error)
	PutIndexEntry(ctx context.Context, ownerID string, entry model.ChatSummary) error
	RemoveIndexEntry(ctx context.Context, ownerID, chatID string) error
	ListOwned(ctx context.Context, ownerID string) ([]model.ChatRef, error)
	Owners(ctx context.Context) ([]string, error)
}

// ChatService ties the chat store and the per-user index together. It is
// the only writer of the index, so the id sets of a user's chats and
// summaries stay equal; when a step fails halfway the mismatch is left for
// Repair instead of being surfaced to the end user.
type ChatService struct {
	store ChatStore
}

func NewChatService(store ChatStore) *ChatService {
	return &ChatService{store: store}
}

func (s *ChatService) CreateSession(ctx context.Context, ownerID, text string) (*model.Chat, error) {
	chat, err := s.store.Create(ctx, ownerID, text)
	if err != nil {
		return nil, err
	}

	entry := model.ChatSummary{ID: chat.ID, Title: SummaryTitle(text)}
	if err := s.store.PutIndexEntry(ctx, ownerID, entry); err != nil {
		// The chat exists but its summary does not; the repair sweep
		// re-inserts it. The caller still gets a working chat.
		slog.Warn("chat created without index entry", "chat_id", chat.ID, "user_id", ownerID, "err", err)
	}
	return chat, nil
}

// ListSessions returns the user's summaries, most recently updated first.
// Index storage order is not trusted: entries are re-sorted against the
// chats' own updated_at timestamps.
func (s *ChatService) ListSessions(ctx context.Context, ownerID string) ([]model.ChatSummary, error) {
	entries, err := s.store.GetIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	refs, err := s.store.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	updatedAt := make(map[string]time.Time, len(refs))
	for _, ref := range refs {
		updatedAt[ref.ID] = ref.UpdatedAt
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return updatedAt[entries[i].ID].After(updatedAt[entries[j].ID])
	})
	return entries, nil
}

func (s *ChatService) GetSession(ctx context.Context, id, ownerID string) (*model.Chat, error) {
	return s.store.Get(ctx, id, ownerID)
}

// AppendTurn appends a question/answer turn as one atomic batch.
func (s *ChatService) AppendTurn(ctx context.Context, id, ownerID, question, answer, img string) (*model.Chat, error) {
	return s.store.AppendMessages(ctx, id, ownerID, BuildTurn(question, answer, img))
}

func (s *ChatService) DeleteSession(ctx context.Context, id, ownerID string) error {
	existed, err := s.store.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !existed {
		// The index is left untouched for an unknown id.
		return model.ErrChatNotFound
	}

	if err := s.store.RemoveIndexEntry(ctx, ownerID, id); err != nil {
		slog.Warn("chat deleted but index entry remains", "chat_id", id, "user_id", ownerID, "err", err)
	}
	return nil
}

// Repair reconciles a user's index with their chats in both directions:
// orphaned chats get a summary back (title from the first message),
// dangling summaries are dropped. Returns the number of fixes applied.
func (s *ChatService) Repair(ctx context.Context, ownerID string) (int, error) {
	refs, err := s.store.ListOwned(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	entries, err := s.store.GetIndex(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	indexed := make(map[string]bool, len(entries))
	for _, e := range entries {
		indexed[e.ID] = true
	}
	owned := make(map[string]bool, len(refs))
	for _, ref := range refs {
		owned[ref.ID] = true
	}

	fixes := 0
	for _, ref := range refs {
		if indexed[ref.ID] {
			continue
		}
		entry := model.ChatSummary{ID: ref.ID, Title: SummaryTitle(ref.FirstText)}
		if err := s.store.PutIndexEntry(ctx, ownerID, entry); err != nil {
			return fixes, fmt.Errorf("restore index entry %s: %w", ref.ID, err)
		}
		fixes++
	}
	for _, e := range entries {
		if owned[e.ID] {
			continue
		}
		if err := s.store.RemoveIndexEntry(ctx, ownerID, e.ID); err != nil {
			return fixes, fmt.Errorf("drop dangling index entry %s: %w", e.ID, err)
		}
		fixes++
	}
	return fixes, nil
}

// RepairAll runs Repair for every user with an index.
func (s *ChatService) RepairAll(ctx context.Context) (int, error) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, owner := range owners {
		fixes, err := s.Repair(ctx, owner)
		total += fixes
		if err != nil {
			return total, fmt.Errorf("repair %s: %w", owner, err)
		}
	}
	return total, nil
}

// SummaryTitle derives an index title from a chat's first message.
func SummaryTitle(text string) string {
	if text == "" {
		return "new chat"
	}
	runes := []rune(text)
	if len(runes) > TitleLimit {
		runes = runes[:TitleLimit]
	}
	return string(runes)
}

// RepairSweeper periodically reconciles every user's chat index.
type RepairSweeper struct {
	chats    *ChatService
	interval time.Duration
}

func NewRepairSweeper(chats *ChatService, interval time.Duration) *RepairSweeper {
	return &RepairSweeper{chats: chats, interval: interval}
}

func (r *RepairSweeper) Name() string { return "index repair sweeper" }

func (r *RepairSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fixes, err := r.chats.RepairAll(ctx)
			if err != nil {
				slog.Error("index repair sweep failed", "err", err)
				continue
			}
			if fixes > 0 {
				slog.Info("index repair sweep applied fixes", "fixes", fixes)
			}
		}
	}
}
