// File: internal/store/remote/record.go
package remote

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ampersand-labs/homework/internal/domain"
)

// ChatRecord is the stored shape of a chat. Messages travel as one JSON
// document; the collection is small and rewritten per-record.
type ChatRecord struct {
	ID            string         `gorm:"primarykey"`
	UserID        string         `gorm:"index;not null"`
	Title         string         `gorm:"not null"`
	Messages      datatypes.JSON `gorm:"not null"`
	CreatedAt     int64          `gorm:"not null"`
	LastUpdatedAt int64          `gorm:"index;not null"`
}

// TemplateRecord is the stored shape of a style template. The
// three-section payload is optional and stored as JSON.
type TemplateRecord struct {
	ID            string         `gorm:"primarykey"`
	UserID        string         `gorm:"index;not null"`
	Name          string         `gorm:"not null"`
	Description   string
	Icon          string
	Type          string         `gorm:"not null"`
	InputExample  string
	OutputExample string
	ThreeSection  datatypes.JSON
	SystemPrompt  string
	CreatedAt     int64 `gorm:"not null"`
	LastUsedAt    int64
	UseCount      int `gorm:"index;not null"`
}

func chatToRecord(userID string, chat domain.Chat) (ChatRecord, error) {
	messages, err := json.Marshal(chat.Messages)
	if err != nil {
		return ChatRecord{}, fmt.Errorf("encode messages for chat %s: %w", chat.ID, err)
	}
	return ChatRecord{
		ID:            chat.ID,
		UserID:        userID,
		Title:         chat.Title,
		Messages:      messages,
		CreatedAt:     chat.CreatedAt,
		LastUpdatedAt: chat.LastUpdatedAt,
	}, nil
}

func recordToChat(rec ChatRecord) (domain.Chat, error) {
	var messages []domain.Message
	if len(rec.Messages) > 0 {
		if err := json.Unmarshal(rec.Messages, &messages); err != nil {
			return domain.Chat{}, fmt.Errorf("decode messages for chat %s: %w", rec.ID, err)
		}
	}
	return domain.Chat{
		ID:            rec.ID,
		Title:         rec.Title,
		Messages:      messages,
		CreatedAt:     rec.CreatedAt,
		LastUpdatedAt: rec.LastUpdatedAt,
	}, nil
}

func templateToRecord(userID string, t domain.StyleTemplate) (TemplateRecord, error) {
	rec := TemplateRecord{
		ID:            t.ID,
		UserID:        userID,
		Name:          t.Name,
		Description:   t.Description,
		Icon:          t.Icon,
		Type:          t.Type,
		InputExample:  t.InputExample,
		OutputExample: t.OutputExample,
		SystemPrompt:  t.SystemPrompt,
		CreatedAt:     t.CreatedAt,
		LastUsedAt:    t.LastUsedAt,
		UseCount:      t.UseCount,
	}
	if t.ThreeSection != nil {
		payload, err := json.Marshal(t.ThreeSection)
		if err != nil {
			return TemplateRecord{}, fmt.Errorf("encode three-section payload for template %s: %w", t.ID, err)
		}
		rec.ThreeSection = payload
	}
	return rec, nil
}

func recordToTemplate(rec TemplateRecord) (domain.StyleTemplate, error) {
	t := domain.StyleTemplate{
		ID:            rec.ID,
		Name:          rec.Name,
		Description:   rec.Description,
		Icon:          rec.Icon,
		Type:          rec.Type,
		InputExample:  rec.InputExample,
		OutputExample: rec.OutputExample,
		SystemPrompt:  rec.SystemPrompt,
		CreatedAt:     rec.CreatedAt,
		LastUsedAt:    rec.LastUsedAt,
		UseCount:      rec.UseCount,
	}
	if len(rec.ThreeSection) > 0 {
		var spec domain.ThreeSectionSpec
		if err := json.Unmarshal(rec.ThreeSection, &spec); err != nil {
			return domain.StyleTemplate{}, fmt.Errorf("decode three-section payload for template %s: %w", rec.ID, err)
		}
		t.ThreeSection = &spec
	}
	return t, nil
}
