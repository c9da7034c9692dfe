package libs

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/RayaSatriatama/dicoding-genai-backend/database"
	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

func newChatService() (*ChatService, *database.MemoryChatStore) {
	store := database.NewMemoryChatStore()
	return NewChatService(store), store
}

func TestCreateSessionSeedsHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChatService()

	chat, err := svc.CreateSession(ctx, "u1", "Hello")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if len(chat.History) != 1 {
		t.Fatalf("expected seeded history of 1, got %d", len(chat.History))
	}
	if chat.History[0].Role != model.RoleUser || chat.History[0].Parts[0].Text != "Hello" {
		t.Errorf("unexpected seed message %+v", chat.History[0])
	}

	summaries, err := svc.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != chat.ID || summaries[0].Title != "Hello" {
		t.Errorf("unexpected summaries %+v", summaries)
	}
}

func TestSummaryTitleTruncation(t *testing.T) {
	long := strings.Repeat("abcdef", 10) // 60 chars

	tests := []struct {
		text string
		want string
	}{
		{"Hello", "Hello"},
		{long, long[:40]},
		{"", "new chat"},
	}
	for _, tt := range tests {
		if got := SummaryTitle(tt.text); got != tt.want {
			t.Errorf("SummaryTitle(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAppendTurnHistoryGrowth(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChatService()

	chat, _ := svc.CreateSession(ctx, "u1", "seed")

	// N model-only appends grow history to 1+N.
	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.AppendTurn(ctx, chat.ID, "u1", "", "answer", ""); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	got, _ := svc.GetSession(ctx, chat.ID, "u1")
	if len(got.History) != 1+n {
		t.Fatalf("expected history of %d, got %d", 1+n, len(got.History))
	}

	// A full turn adds exactly [user, model] in order.
	updated, err := svc.AppendTurn(ctx, chat.ID, "u1", "Q", "A", "")
	if err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	if len(updated.History) != 1+n+2 {
		t.Fatalf("expected history of %d, got %d", 1+n+2, len(updated.History))
	}
	tail := updated.History[len(updated.History)-2:]
	if tail[0].Role != model.RoleUser || tail[1].Role != model.RoleModel {
		t.Errorf("expected [user, model] tail, got [%s, %s]", tail[0].Role, tail[1].Role)
	}
}

func TestGetSessionCrossUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChatService()

	chat, _ := svc.CreateSession(ctx, "owner", "mine")

	if _, err := svc.GetSession(ctx, chat.ID, "intruder"); !errors.Is(err, model.ErrChatNotFound) {
		t.Fatalf("cross-user access must look like absence, got %v", err)
	}
	if _, err := svc.AppendTurn(ctx, chat.ID, "intruder", "Q", "A", ""); !errors.Is(err, model.ErrChatNotFound) {
		t.Fatalf("cross-user append must look like absence, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChatService()

	chat, _ := svc.CreateSession(ctx, "u1", "bye")

	if err := svc.DeleteSession(ctx, chat.ID, "u1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, chat.ID, "u1"); !errors.Is(err, model.ErrChatNotFound) {
		t.Fatalf("deleted chat must be gone, got %v", err)
	}
	if err := svc.DeleteSession(ctx, chat.ID, "u1"); !errors.Is(err, model.ErrChatNotFound) {
		t.Fatalf("second delete must report not found, got %v", err)
	}
}

// After any create/delete sequence, the index ids equal the owned chat ids.
func TestIndexBijection(t *testing.T) {
	ctx := context.Background()
	svc, store := newChatService()

	var ids []string
	for _, text := range []string{"one", "two", "three", "four"} {
		chat, err := svc.CreateSession(ctx, "u1", text)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, chat.ID)
	}

	if err := svc.DeleteSession(ctx, ids[1], "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteSession(ctx, ids[3], "u1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	assertBijection(t, store, "u1")
}

func assertBijection(t *testing.T, store *database.MemoryChatStore, owner string) {
	t.Helper()
	ctx := context.Background()

	refs, _ := store.ListOwned(ctx, owner)
	entries, _ := store.GetIndex(ctx, owner)

	ownedIDs := make([]string, len(refs))
	for i, r := range refs {
		ownedIDs[i] = r.ID
	}
	indexIDs := make([]string, len(entries))
	for i, e := range entries {
		indexIDs[i] = e.ID
	}
	sort.Strings(ownedIDs)
	sort.Strings(indexIDs)

	if len(ownedIDs) != len(indexIDs) {
		t.Fatalf("index/chat mismatch: %d chats vs %d entries", len(ownedIDs), len(indexIDs))
	}
	for i := range ownedIDs {
		if ownedIDs[i] != indexIDs[i] {
			t.Fatalf("index/chat id mismatch: %v vs %v", ownedIDs, indexIDs)
		}
	}
}

func TestRepairRestoresOrphanedChat(t *testing.T) {
	ctx := context.Background()
	svc, store := newChatService()

	// A chat created directly on the store has no index entry, as if the
	// summary insert had failed after the create.
	orphan, err := store.Create(ctx, "u1", "orphaned question")
	if err != nil {
		t.Fatalf("store create failed: %v", err)
	}

	fixes, err := svc.Repair(ctx, "u1")
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if fixes != 1 {
		t.Fatalf("expected 1 fix, got %d", fixes)
	}

	entries, _ := store.GetIndex(ctx, "u1")
	if len(entries) != 1 || entries[0].ID != orphan.ID {
		t.Fatalf("expected restored entry for %s, got %+v", orphan.ID, entries)
	}
	if entries[0].Title != "orphaned question" {
		t.Errorf("expected title from first message, got %q", entries[0].Title)
	}

	assertBijection(t, store, "u1")
}

func TestRepairDropsDanglingEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newChatService()

	chat, _ := svc.CreateSession(ctx, "u1", "kept")

	// A dangling entry points at a chat that no longer exists.
	if err := store.PutIndexEntry(ctx, "u1", model.ChatSummary{ID: "gone", Title: "stale"}); err != nil {
		t.Fatalf("put entry failed: %v", err)
	}

	fixes, err := svc.Repair(ctx, "u1")
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if fixes != 1 {
		t.Fatalf("expected 1 fix, got %d", fixes)
	}

	entries, _ := store.GetIndex(ctx, "u1")
	if len(entries) != 1 || entries[0].ID != chat.ID {
		t.Fatalf("expected only the live entry, got %+v", entries)
	}
}

func TestListSessionsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newChatService()

	first, _ := svc.CreateSession(ctx, "u1", "first")
	second, _ := svc.CreateSession(ctx, "u1", "second")

	// Touching the older chat moves it to the front.
	if _, err := svc.AppendTurn(ctx, first.ID, "u1", "", "bump", ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	summaries, err := svc.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != first.ID || summaries[1].ID != second.ID {
		t.Errorf("expected most-recently-updated first, got %+v", summaries)
	}
}
