// File: internal/composer/composer.go

// Package composer turns heterogeneous draft state into exactly one
// outgoing message, resolves which style template governs the exchange,
// invokes the model client, and appends both sides of the exchange to the
// chat through the state coordinator.
package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/llm"
	statesync "github.com/ampersand-labs/homework/internal/sync"
	"github.com/ampersand-labs/homework/internal/template"
)

var (
	// ErrEmptyDraft rejects a submission with no text, no attachments, and
	// no invocation in progress.
	ErrEmptyDraft = errors.New("composer: nothing to send")
	// ErrUnknownChat means the target chat id does not exist.
	ErrUnknownChat = errors.New("composer: unknown chat")
	// ErrUnknownMessage means the target message id does not exist.
	ErrUnknownMessage = errors.New("composer: unknown message")
	// ErrUnknownTemplate means the invocation names a missing or
	// non-three-section template.
	ErrUnknownTemplate = errors.New("composer: unknown three-section template")
	// ErrMissingFields rejects a three-section invocation without both
	// required fields.
	ErrMissingFields = errors.New("composer: raw material and template structure are required")
)

const titleTimeout = 20 * time.Second

// Draft is the accumulated composer state for one turn: typed text, the
// side context panel, captured oversized snippets, pending attachments, and
// the selected template chips in attach order.
type Draft struct {
	Text             string                  `json:"text"`
	ContextPanel     string                  `json:"contextPanel,omitempty"`
	Snippets         []string                `json:"snippets,omitempty"`
	Files            []domain.FileAttachment `json:"files,omitempty"`
	ChipIDs          []string                `json:"chipIds,omitempty"`
	StickyTemplateID string                  `json:"stickyTemplateId,omitempty"`
}

// AddChip attaches a template chip for this turn.
func (d *Draft) AddChip(templateID string) {
	d.ChipIDs = append(d.ChipIDs, templateID)
}

// PopChip removes the most-recently-added chip. It only applies when the
// text field is empty, so atomic chip deletion takes precedence over
// character deletion without ever eating typed text.
func (d *Draft) PopChip() (string, bool) {
	if d.Text != "" || len(d.ChipIDs) == 0 {
		return "", false
	}
	last := d.ChipIDs[len(d.ChipIDs)-1]
	d.ChipIDs = d.ChipIDs[:len(d.ChipIDs)-1]
	return last, true
}

// Session drives message exchanges against one state coordinator and one
// model client.
type Session struct {
	state  *statesync.Coordinator
	client llm.Client
	logger services.Logger

	mu      sync.Mutex
	loading map[string]bool
}

// NewSession creates a composer session.
func NewSession(state *statesync.Coordinator, client llm.Client, logger services.Logger) *Session {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Session{
		state:   state,
		client:  client,
		logger:  logger,
		loading: make(map[string]bool),
	}
}

// Loading reports whether a generation is in flight for the chat.
func (s *Session) Loading(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[chatID]
}

func (s *Session) setLoading(chatID string, v bool) {
	s.mu.Lock()
	if v {
		s.loading[chatID] = true
	} else {
		delete(s.loading, chatID)
	}
	s.mu.Unlock()
}

// ResolveTemplate picks the single template governing a turn, or nil:
// the last chip added wins, then a sticky template from a prior turn, then
// a case-insensitive @word match in the composed text.
func (s *Session) ResolveTemplate(draft Draft) *domain.StyleTemplate {
	templates := s.state.Templates()
	if n := len(draft.ChipIDs); n > 0 {
		for i := range templates {
			if templates[i].ID == draft.ChipIDs[n-1] {
				return &templates[i]
			}
		}
	}
	if draft.StickyTemplateID != "" {
		for i := range templates {
			if templates[i].ID == draft.StickyTemplateID {
				return &templates[i]
			}
		}
	}
	if word, ok := content.FirstMention(draft.Text); ok {
		return template.Resolve(templates, word)
	}
	return nil
}

// assemble builds the final message body: typed text, with any side-panel
// material prepended under the context markers, and any captured snippets
// appended under the appended-context marker. Raw @mention text stays in
// the body; only an autocomplete commit removes it from the draft.
func assemble(draft Draft) string {
	body := draft.Text
	if draft.ContextPanel != "" {
		body = content.WrapContext(draft.ContextPanel, body)
	}
	return content.AppendSnippets(body, draft.Snippets)
}

// Send submits a draft to a chat and returns the appended assistant
// message. A model failure is not an error to the caller: it becomes the
// assistant message's content, persisted like any other reply.
func (s *Session) Send(ctx context.Context, chatID string, draft Draft) (domain.Message, error) {
	chat, ok := s.state.Chat(chatID)
	if !ok {
		return domain.Message{}, ErrUnknownChat
	}

	resolved := s.ResolveTemplate(draft)
	body := assemble(draft)
	if body == "" && len(draft.Files) == 0 {
		return domain.Message{}, ErrEmptyDraft
	}

	userMsg := domain.Message{
		ID:          uuid.NewString(),
		Role:        domain.RoleUser,
		Content:     body,
		Timestamp:   time.Now().UnixMilli(),
		Attachments: draft.Files,
	}
	if resolved != nil {
		userMsg.TemplateUsedID = resolved.ID
	}

	reply := s.exchange(ctx, chatID, chat.Messages, userMsg, llm.GenerateRequest{
		Prompt:      body,
		History:     chat.Messages,
		Template:    resolved,
		Attachments: draft.Files,
	})
	if resolved != nil {
		s.state.RecordTemplateUse(resolved.ID)
	}
	return reply, nil
}

// InvokeThreeSection submits a three-section invocation form. The rendered
// fill-in prompt replaces the free-text assembly; attachment and history
// handling is unchanged.
func (s *Session) InvokeThreeSection(ctx context.Context, chatID string, usage domain.TemplateUsage, files []domain.FileAttachment) (domain.Message, error) {
	chat, ok := s.state.Chat(chatID)
	if !ok {
		return domain.Message{}, ErrUnknownChat
	}
	t, ok := s.state.Template(usage.TemplateID)
	if !ok || !t.IsThreeSection() {
		return domain.Message{}, ErrUnknownTemplate
	}
	if usage.RawMaterial == "" || usage.Template == "" {
		return domain.Message{}, ErrMissingFields
	}

	prompt := template.RenderInvocation(&t, usage)
	userMsg := domain.Message{
		ID:             uuid.NewString(),
		Role:           domain.RoleUser,
		Content:        prompt,
		Timestamp:      time.Now().UnixMilli(),
		TemplateUsedID: t.ID,
		Attachments:    files,
	}

	// The prompt is already fully rendered; the client must not expand it
	// again, so no template rides along.
	reply := s.exchange(ctx, chatID, chat.Messages, userMsg, llm.GenerateRequest{
		Prompt:      prompt,
		History:     chat.Messages,
		Attachments: files,
	})
	s.state.RecordTemplateUse(t.ID)
	return reply, nil
}

// exchange runs the shared send sequence: append the user message, call the
// model, append the reply (or the failure notice), and clear the loading
// flag no matter what. The reply targets the chat by id and lands as a
// silent no-op if the chat was deleted mid-flight.
func (s *Session) exchange(ctx context.Context, chatID string, history []domain.Message, userMsg domain.Message, req llm.GenerateRequest) domain.Message {
	firstExchange := len(history) == 0

	s.setLoading(chatID, true)
	defer s.setLoading(chatID, false)

	s.state.UpdateMessages(chatID, append(history, userMsg))

	text, err := s.client.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("generation failed", "chat_id", chatID, "error", err)
		text = FailureNotice(err)
	}

	assistant := domain.Message{
		ID:             uuid.NewString(),
		Role:           domain.RoleAssistant,
		Content:        text,
		Timestamp:      time.Now().UnixMilli(),
		TemplateUsedID: userMsg.TemplateUsedID,
	}

	if cur, ok := s.state.Chat(chatID); ok {
		s.state.UpdateMessages(chatID, append(cur.Messages, assistant))
	}

	if err == nil && firstExchange {
		go s.autoTitle(chatID, userMsg.Content)
	}
	return assistant
}

// autoTitle asks the model for a better title after the first successful
// reply. The derived truncation applied at append time is already in place,
// so a failure here changes nothing.
func (s *Session) autoTitle(chatID, firstUserContent string) {
	ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
	defer cancel()
	title, err := s.client.GenerateTitle(ctx, firstUserContent)
	if err != nil || title == "" {
		if err != nil {
			s.logger.Debug("title generation failed", "chat_id", chatID, "error", err)
		}
		return
	}
	s.state.SetChatTitle(chatID, title)
}

// EditMessage edits a stored message. Editing a user message truncates the
// chat to everything strictly before it, appends the edited message under
// its original id with the original template and attachments, and
// regenerates the reply. Editing an assistant message only replaces its
// text.
func (s *Session) EditMessage(ctx context.Context, chatID, messageID, newContent string) error {
	chat, ok := s.state.Chat(chatID)
	if !ok {
		return ErrUnknownChat
	}
	idx := -1
	for i := range chat.Messages {
		if chat.Messages[i].ID == messageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownMessage
	}
	original := chat.Messages[idx]

	if original.Role == domain.RoleAssistant {
		chat.Messages[idx].Content = newContent
		s.state.UpdateMessages(chatID, chat.Messages)
		return nil
	}

	edited := original
	edited.Content = newContent
	edited.Timestamp = time.Now().UnixMilli()

	history := chat.Messages[:idx]
	s.exchange(ctx, chatID, history, edited, llm.GenerateRequest{
		Prompt:      newContent,
		History:     history,
		Template:    s.templateByID(original.TemplateUsedID),
		Attachments: original.Attachments,
	})
	return nil
}

// DeleteMessage removes one message by id with no cascade.
func (s *Session) DeleteMessage(chatID, messageID string) error {
	chat, ok := s.state.Chat(chatID)
	if !ok {
		return ErrUnknownChat
	}
	kept := chat.Messages[:0]
	removed := false
	for _, m := range chat.Messages {
		if m.ID == messageID {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if !removed {
		return ErrUnknownMessage
	}
	s.state.UpdateMessages(chatID, kept)
	return nil
}

// Regenerate resends an assistant message's own stored content as a
// brand-new user-role request with fresh ids. Nothing is replaced; the new
// user message and its reply are appended to the end of the chat.
func (s *Session) Regenerate(ctx context.Context, chatID, assistantMessageID string) (domain.Message, error) {
	chat, ok := s.state.Chat(chatID)
	if !ok {
		return domain.Message{}, ErrUnknownChat
	}
	var source *domain.Message
	for i := range chat.Messages {
		if chat.Messages[i].ID == assistantMessageID && chat.Messages[i].Role == domain.RoleAssistant {
			source = &chat.Messages[i]
			break
		}
	}
	if source == nil {
		return domain.Message{}, ErrUnknownMessage
	}

	userMsg := domain.Message{
		ID:             uuid.NewString(),
		Role:           domain.RoleUser,
		Content:        source.Content,
		Timestamp:      time.Now().UnixMilli(),
		TemplateUsedID: source.TemplateUsedID,
		Attachments:    source.Attachments,
	}
	reply := s.exchange(ctx, chatID, chat.Messages, userMsg, llm.GenerateRequest{
		Prompt:      source.Content,
		History:     chat.Messages,
		Template:    s.templateByID(source.TemplateUsedID),
		Attachments: source.Attachments,
	})
	return reply, nil
}

func (s *Session) templateByID(id string) *domain.StyleTemplate {
	if id == "" {
		return nil
	}
	t, ok := s.state.Template(id)
	if !ok {
		return nil
	}
	return &t
}

// FailureNotice maps a model-client error to the user-visible assistant
// message text. The notice lands in the transcript as a normal message and
// the conversation stays usable.
func FailureNotice(err error) string {
	switch llm.ErrType(err) {
	case llm.ErrTypeConfig:
		return "Configuration Error: the completion service API key is not set. Add it to the server environment and restart."
	case llm.ErrTypeAuth:
		return "Authentication Error: the completion service rejected the configured credentials."
	case llm.ErrTypeNetwork:
		return "Network Error: could not reach the completion service. A firewall or proxy on your network may be blocking this host."
	default:
		return fmt.Sprintf("Processing Failure: %s", err.Error())
	}
}
