// File: internal/domain/chat.go
package domain

// Chat represents a single conversation thread.
//
// Messages are kept in chronological insertion order. LastUpdatedAt must be
// bumped on every mutation to the title or the message list; chat
// collections are displayed in descending LastUpdatedAt order.
type Chat struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Messages      []Message `json:"messages"`
	CreatedAt     int64     `json:"createdAt"`
	LastUpdatedAt int64     `json:"lastUpdatedAt"`
}

// PlaceholderTitle is assigned to a freshly created chat until a real title
// is derived from its first user message.
const PlaceholderTitle = "New Session"

// FirstUserMessage returns the first user-authored message, or nil.
func (c *Chat) FirstUserMessage() *Message {
	for i := range c.Messages {
		if c.Messages[i].Role == RoleUser {
			return &c.Messages[i]
		}
	}
	return nil
}

// HasPlaceholderTitle reports whether the chat still carries the default
// title and is eligible for background auto-titling.
func (c *Chat) HasPlaceholderTitle() bool {
	return c.Title == "" || c.Title == PlaceholderTitle
}
