// File: internal/store/remote/gorm_store_test.go
package remote

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ampersand-labs/homework/internal/domain"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewGormStore(db)
}

func TestChatUpsertFetchDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chat := domain.Chat{
		ID:    "c1",
		Title: "First",
		Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "hello", Timestamp: 1},
		},
		CreatedAt:     1,
		LastUpdatedAt: 2,
	}
	require.NoError(t, store.UpsertChat(ctx, "u1", chat))

	chats, err := store.GetChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "First", chats[0].Title)
	require.Len(t, chats[0].Messages, 1)

	// Upsert with the same id replaces, not duplicates.
	chat.Title = "Renamed"
	chat.LastUpdatedAt = 5
	require.NoError(t, store.UpsertChat(ctx, "u1", chat))
	chats, err = store.GetChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "Renamed", chats[0].Title)

	require.NoError(t, store.DeleteChat(ctx, "c1"))
	chats, err = store.GetChats(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, chats)
}

func TestChatsOrderedByRecency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChat(ctx, "u1", domain.Chat{ID: "old", LastUpdatedAt: 100}))
	require.NoError(t, store.UpsertChat(ctx, "u1", domain.Chat{ID: "new", LastUpdatedAt: 900}))
	require.NoError(t, store.UpsertChat(ctx, "u1", domain.Chat{ID: "mid", LastUpdatedAt: 500}))

	chats, err := store.GetChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 3)
	require.Equal(t, []string{"new", "mid", "old"}, []string{chats[0].ID, chats[1].ID, chats[2].ID})
}

func TestPartitionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChat(ctx, "u1", domain.Chat{ID: "c1", LastUpdatedAt: 1}))
	require.NoError(t, store.UpsertChat(ctx, "u2", domain.Chat{ID: "c2", LastUpdatedAt: 1}))

	chats, err := store.GetChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "c1", chats[0].ID)
}

func TestTemplatesOrderedByUseCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertTemplate(ctx, "u1", domain.StyleTemplate{ID: "rare", Name: "Rare", UseCount: 1}))
	require.NoError(t, store.UpsertTemplate(ctx, "u1", domain.StyleTemplate{ID: "popular", Name: "Popular", UseCount: 40}))

	templates, err := store.GetTemplates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	require.Equal(t, "popular", templates[0].ID)
}

func TestThreeSectionSurvivesStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tmpl := domain.StyleTemplate{
		ID:   "t1",
		Name: "Minutes",
		Type: domain.TemplateTypeThreeSection,
		ThreeSection: &domain.ThreeSectionSpec{
			RawMaterial: domain.SlotSpec{Label: "Raw", Example: "notes"},
			Template:    domain.SlotSpec{Label: "Structure"},
			ExampleOutput: &domain.ExampleOutput{
				Content: "Attendees: Sam",
				Enabled: true,
			},
		},
	}
	require.NoError(t, store.UpsertTemplate(ctx, "u1", tmpl))

	templates, err := store.GetTemplates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	loaded := templates[0]
	require.NotNil(t, loaded.ThreeSection)
	require.Equal(t, "notes", loaded.ThreeSection.RawMaterial.Example)
	require.NotNil(t, loaded.ThreeSection.ExampleOutput)
	require.True(t, loaded.ThreeSection.ExampleOutput.Enabled)
}

func TestInvalidRecordsRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, store.UpsertChat(ctx, "", domain.Chat{ID: "c1"}), ErrInvalidRecord)
	require.ErrorIs(t, store.UpsertChat(ctx, "u1", domain.Chat{}), ErrInvalidRecord)
	_, err := store.GetChats(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRecord)
}
