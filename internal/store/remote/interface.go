// File: internal/store/remote/interface.go

// Package remote implements the cloud persistence adapter: per-record
// upsert/get/delete against a store partitioned by user id. Every call may
// fail independently; callers catch and report, never crash.
package remote

import (
	"context"

	"github.com/ampersand-labs/homework/internal/domain"
)

// Store is the remote persistence contract for the two record kinds.
type Store interface {
	GetChats(ctx context.Context, userID string) ([]domain.Chat, error)
	UpsertChat(ctx context.Context, userID string, chat domain.Chat) error
	DeleteChat(ctx context.Context, chatID string) error

	GetTemplates(ctx context.Context, userID string) ([]domain.StyleTemplate, error)
	UpsertTemplate(ctx context.Context, userID string, t domain.StyleTemplate) error
	DeleteTemplate(ctx context.Context, templateID string) error
}
