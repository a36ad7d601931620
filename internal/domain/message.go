// File: internal/domain/message.go
package domain

// Message roles. Failure notices from the model client are stored as normal
// assistant messages so they persist with the rest of the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn within a chat.
type Message struct {
	ID             string           `json:"id"`
	Role           string           `json:"role"`
	Content        string           `json:"content"`
	Timestamp      int64            `json:"timestamp"`
	TemplateUsedID string           `json:"templateUsedId,omitempty"`
	Attachments    []FileAttachment `json:"attachments,omitempty"`
}

// FileAttachment is a self-contained encoded file payload embedded in a
// message. Data carries a base64 data URL, matching what previously stored
// messages contain.
type FileAttachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}
