// File: internal/store/remote/gorm_store.go
package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ampersand-labs/homework/internal/domain"
)

var ErrInvalidRecord = errors.New("invalid record")

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates or updates the record tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ChatRecord{}, &TemplateRecord{})
}

// GetChats fetches all chats in the user's partition, most recently
// updated first.
func (s *gormStore) GetChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	if userID == "" {
		return nil, ErrInvalidRecord
	}
	var records []ChatRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	chats := make([]domain.Chat, 0, len(records))
	for _, rec := range records {
		chat, err := recordToChat(rec)
		if err != nil {
			// Skip records that no longer decode rather than failing the
			// whole fetch.
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// UpsertChat writes a single chat record into the user's partition.
func (s *gormStore) UpsertChat(ctx context.Context, userID string, chat domain.Chat) error {
	if userID == "" || chat.ID == "" {
		return ErrInvalidRecord
	}
	rec, err := chatToRecord(userID, chat)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

// DeleteChat removes one chat record by id. Deleting an absent record is
// not an error.
func (s *gormStore) DeleteChat(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrInvalidRecord
	}
	return s.db.WithContext(ctx).Where("id = ?", chatID).Delete(&ChatRecord{}).Error
}

// GetTemplates fetches all templates in the user's partition, most used
// first.
func (s *gormStore) GetTemplates(ctx context.Context, userID string) ([]domain.StyleTemplate, error) {
	if userID == "" {
		return nil, ErrInvalidRecord
	}
	var records []TemplateRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("use_count DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	templates := make([]domain.StyleTemplate, 0, len(records))
	for _, rec := range records {
		t, err := recordToTemplate(rec)
		if err != nil {
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// UpsertTemplate writes a single template record into the user's partition.
func (s *gormStore) UpsertTemplate(ctx context.Context, userID string, t domain.StyleTemplate) error {
	if userID == "" || t.ID == "" {
		return ErrInvalidRecord
	}
	rec, err := templateToRecord(userID, t)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

// DeleteTemplate removes one template record by id.
func (s *gormStore) DeleteTemplate(ctx context.Context, templateID string) error {
	if templateID == "" {
		return ErrInvalidRecord
	}
	return s.db.WithContext(ctx).Where("id = ?", templateID).Delete(&TemplateRecord{}).Error
}
