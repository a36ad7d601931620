// File: internal/sync/merge_test.go
package sync

import (
	"testing"

	"github.com/ampersand-labs/homework/internal/domain"
)

func TestMergeChatsRemoteWinsOnCollision(t *testing.T) {
	localChats := []domain.Chat{
		{ID: "1", Title: "local", LastUpdatedAt: 100},
	}
	remoteChats := []domain.Chat{
		{ID: "1", Title: "remote", LastUpdatedAt: 200},
		{ID: "2", Title: "remote only", LastUpdatedAt: 50},
	}

	merged := MergeChats(localChats, remoteChats)

	if len(merged) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(merged))
	}
	if merged[0].ID != "1" || merged[0].LastUpdatedAt != 200 || merged[0].Title != "remote" {
		t.Fatalf("chat 1 should be the remote copy, got %+v", merged[0])
	}
	if merged[1].ID != "2" || merged[1].LastUpdatedAt != 50 {
		t.Fatalf("chat 2 misplaced: %+v", merged[1])
	}
}

func TestMergeChatsSortsDescending(t *testing.T) {
	merged := MergeChats(
		[]domain.Chat{{ID: "a", LastUpdatedAt: 10}},
		[]domain.Chat{{ID: "b", LastUpdatedAt: 500}, {ID: "c", LastUpdatedAt: 100}},
	)
	for i := 1; i < len(merged); i++ {
		if merged[i-1].LastUpdatedAt < merged[i].LastUpdatedAt {
			t.Fatalf("ordering violated at %d: %+v", i, merged)
		}
	}
}

func TestMergeTemplatesLocalWinsOnCollision(t *testing.T) {
	localTemplates := []domain.StyleTemplate{
		{ID: "t1", Name: "edited locally"},
	}
	remoteTemplates := []domain.StyleTemplate{
		{ID: "t1", Name: "stale remote"},
		{ID: "t2", Name: "remote only"},
	}

	merged := MergeTemplates(localTemplates, remoteTemplates)

	if len(merged) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(merged))
	}
	if merged[0].Name != "edited locally" {
		t.Fatalf("local template should survive the merge, got %+v", merged[0])
	}
	if merged[1].ID != "t2" {
		t.Fatalf("remote-only template missing: %+v", merged)
	}
}
