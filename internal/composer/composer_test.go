// File: internal/composer/composer_test.go
package composer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ampersand-labs/homework/internal/content"
	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/llm"
	"github.com/ampersand-labs/homework/internal/store/local"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

// stubClient records requests and returns a canned reply or error.
type stubClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.GenerateRequest
}

func (s *stubClient) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubClient) GenerateTitle(ctx context.Context, userInput string) (string, error) {
	return "", errors.New("no titles in tests")
}

func (s *stubClient) HealthCheck(ctx context.Context) error { return nil }

func (s *stubClient) lastRequest(t *testing.T) llm.GenerateRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("no generate calls recorded")
	}
	return s.requests[len(s.requests)-1]
}

func newTestSession(t *testing.T, client llm.Client) (*Session, *statesync.Coordinator) {
	t.Helper()
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	state := statesync.New(store, nil, &services.NoOpLogger{}, nil)
	if err := state.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return NewSession(state, client, &services.NoOpLogger{}), state
}

func starterID(t *testing.T, state *statesync.Coordinator, name string) string {
	t.Helper()
	for _, tmpl := range state.Templates() {
		if tmpl.Name == name {
			return tmpl.ID
		}
	}
	t.Fatalf("starter template %q not found", name)
	return ""
}

func TestSendAppendsBothSides(t *testing.T) {
	client := &stubClient{reply: "transformed"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	reply, err := session.Send(context.Background(), chat.ID, Draft{Text: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Content != "transformed" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(stored.Messages))
	}
	if stored.Messages[0].Role != domain.RoleUser || stored.Messages[0].Content != "hello" {
		t.Fatalf("user message wrong: %+v", stored.Messages[0])
	}

	// History excludes the message being sent.
	if len(client.lastRequest(t).History) != 0 {
		t.Fatal("first exchange should carry empty history")
	}
}

func TestSendFailureBecomesAssistantMessage(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	reply, err := session.Send(context.Background(), chat.ID, Draft{Text: "hello"})
	if err != nil {
		t.Fatalf("a generation failure must not be a caller error: %v", err)
	}
	if !strings.Contains(reply.Content, "Processing Failure") || !strings.Contains(reply.Content, "boom") {
		t.Fatalf("failure notice missing detail: %q", reply.Content)
	}

	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(stored.Messages))
	}
	if session.Loading(chat.ID) {
		t.Fatal("loading flag must end false after a failure")
	}
}

func TestSendRejectsEmptyDraft(t *testing.T) {
	session, state := newTestSession(t, &stubClient{reply: "x"})
	chat := state.NewChat()

	if _, err := session.Send(context.Background(), chat.ID, Draft{}); !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 0 {
		t.Fatal("a rejected draft must not touch the chat")
	}
}

func TestSendAssemblesMarkers(t *testing.T) {
	client := &stubClient{reply: "ok"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	draft := Draft{
		Text:         "summarize this",
		ContextPanel: "the pasted material",
		Snippets:     []string{"snippet one"},
	}
	if _, err := session.Send(context.Background(), chat.ID, draft); err != nil {
		t.Fatalf("Send: %v", err)
	}

	stored, _ := state.Chat(chat.ID)
	body := stored.Messages[0].Content

	base, snippets := content.ParseSnippets(body)
	if len(snippets) != 1 || snippets[0] != "snippet one" {
		t.Fatalf("snippet round-trip failed: %v", snippets)
	}
	material, query, ok := content.ParseContext(base)
	if !ok {
		t.Fatalf("context markers missing from %q", body)
	}
	if material != "the pasted material" || query != "summarize this" {
		t.Fatalf("context round-trip failed: material=%q query=%q", material, query)
	}
	if client.lastRequest(t).Prompt != body {
		t.Fatal("prompt must match the stored message content")
	}
}

func TestSendKeepsRawMentionTextInBody(t *testing.T) {
	client := &stubClient{reply: "x"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()
	historyID := starterID(t, state, "HistoryNotes")

	if _, err := session.Send(context.Background(), chat.ID, Draft{Text: "summarize @HistoryNotes"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	stored, _ := state.Chat(chat.ID)
	if stored.Messages[0].Content != "summarize @HistoryNotes" {
		t.Fatalf("an uncommitted mention stays in the sent content, got %q", stored.Messages[0].Content)
	}
	if stored.Messages[0].TemplateUsedID != historyID {
		t.Fatalf("mention should still resolve the template, got %+v", stored.Messages[0])
	}
}

func TestResolveTemplatePrecedence(t *testing.T) {
	session, state := newTestSession(t, &stubClient{reply: "x"})
	historyID := starterID(t, state, "HistoryNotes")
	codeID := starterID(t, state, "CodeExplainer")
	emailID := starterID(t, state, "ProEmail")

	// Last chip beats sticky and mention.
	got := session.ResolveTemplate(Draft{
		Text:             "please @ProEmail",
		ChipIDs:          []string{historyID, codeID},
		StickyTemplateID: emailID,
	})
	if got == nil || got.ID != codeID {
		t.Fatalf("last chip should win, got %+v", got)
	}

	// Sticky beats mention.
	got = session.ResolveTemplate(Draft{
		Text:             "please @ProEmail",
		StickyTemplateID: historyID,
	})
	if got == nil || got.ID != historyID {
		t.Fatalf("sticky should win over mention, got %+v", got)
	}

	// Mention, case-insensitively.
	got = session.ResolveTemplate(Draft{Text: "format with @historynotes thanks"})
	if got == nil || got.ID != historyID {
		t.Fatalf("mention should resolve case-insensitively, got %+v", got)
	}

	// A miss degrades silently to no template.
	if got = session.ResolveTemplate(Draft{Text: "no template here"}); got != nil {
		t.Fatalf("expected nil template, got %+v", got)
	}
	if got = session.ResolveTemplate(Draft{Text: "@NoSuchTemplate please"}); got != nil {
		t.Fatalf("unknown mention must degrade to nil, got %+v", got)
	}
}

func TestSendPassesResolvedTemplateAndBumpsUsage(t *testing.T) {
	client := &stubClient{reply: "x"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()
	emailID := starterID(t, state, "ProEmail")

	var before int
	for _, tmpl := range state.Templates() {
		if tmpl.ID == emailID {
			before = tmpl.UseCount
		}
	}

	if _, err := session.Send(context.Background(), chat.ID, Draft{Text: "hey", ChipIDs: []string{emailID}}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	req := client.lastRequest(t)
	if req.Template == nil || req.Template.ID != emailID {
		t.Fatalf("resolved template should ride the request, got %+v", req.Template)
	}

	after, _ := state.Template(emailID)
	if after.UseCount != before+1 {
		t.Fatalf("use count should bump: before=%d after=%d", before, after.UseCount)
	}
	if after.LastUsedAt == 0 {
		t.Fatal("lastUsedAt should be set")
	}

	stored, _ := state.Chat(chat.ID)
	for _, m := range stored.Messages {
		if m.TemplateUsedID != emailID {
			t.Fatalf("both sides should record templateUsedId, got %+v", m)
		}
	}
}

func TestInvokeThreeSection(t *testing.T) {
	client := &stubClient{reply: "filled"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	saved := state.SaveTemplate(domain.StyleTemplate{
		Name: "MeetingMinutes",
		Type: domain.TemplateTypeThreeSection,
		ThreeSection: &domain.ThreeSectionSpec{
			RawMaterial: domain.SlotSpec{Label: "Raw Material"},
			Template:    domain.SlotSpec{Label: "Template"},
		},
	})

	usage := domain.TemplateUsage{
		TemplateID:  saved.ID,
		RawMaterial: "notes from the call",
		Template:    "Attendees:\nDecisions:",
	}
	if _, err := session.InvokeThreeSection(context.Background(), chat.ID, usage, nil); err != nil {
		t.Fatalf("InvokeThreeSection: %v", err)
	}

	stored, _ := state.Chat(chat.ID)
	body := stored.Messages[0].Content
	raw, ok := content.RawSection(body)
	if !ok || raw != "notes from the call" {
		t.Fatalf("raw section missing: %q", body)
	}
	if _, ok := content.TemplateSection(body); !ok {
		t.Fatalf("template section missing: %q", body)
	}

	// Already rendered: the client must not expand it again.
	if client.lastRequest(t).Template != nil {
		t.Fatal("three-section requests must not carry a template")
	}
}

func TestInvokeThreeSectionRequiresBothFields(t *testing.T) {
	session, state := newTestSession(t, &stubClient{reply: "x"})
	chat := state.NewChat()
	saved := state.SaveTemplate(domain.StyleTemplate{
		Name:         "MeetingMinutes",
		Type:         domain.TemplateTypeThreeSection,
		ThreeSection: &domain.ThreeSectionSpec{},
	})

	_, err := session.InvokeThreeSection(context.Background(), chat.ID, domain.TemplateUsage{
		TemplateID:  saved.ID,
		RawMaterial: "only raw",
	}, nil)
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestEditUserMessageTruncatesAndRegenerates(t *testing.T) {
	client := &stubClient{reply: "fresh reply"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	state.UpdateMessages(chat.ID, []domain.Message{
		{ID: "u1", Role: domain.RoleUser, Content: "first", Timestamp: 1},
		{ID: "a1", Role: domain.RoleAssistant, Content: "reply one", Timestamp: 2},
		{ID: "u2", Role: domain.RoleUser, Content: "second", Timestamp: 3},
		{ID: "a2", Role: domain.RoleAssistant, Content: "reply two", Timestamp: 4},
	})

	if err := session.EditMessage(context.Background(), chat.ID, "u1", "X"); err != nil {
		t.Fatalf("EditMessage: %v", err)
	}

	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 2 {
		t.Fatalf("expected [U1', A1'], got %d messages", len(stored.Messages))
	}
	if stored.Messages[0].ID != "u1" || stored.Messages[0].Content != "X" {
		t.Fatalf("edited message should keep its id: %+v", stored.Messages[0])
	}
	if stored.Messages[1].Content != "fresh reply" {
		t.Fatalf("expected a regenerated reply, got %+v", stored.Messages[1])
	}
	if stored.Messages[1].ID == "a1" {
		t.Fatal("regenerated reply should have a fresh id")
	}
}

func TestEditAssistantMessageIsTextOnly(t *testing.T) {
	client := &stubClient{reply: "should not be called"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()

	state.UpdateMessages(chat.ID, []domain.Message{
		{ID: "u1", Role: domain.RoleUser, Content: "hi", Timestamp: 1},
		{ID: "a1", Role: domain.RoleAssistant, Content: "old", Timestamp: 2},
	})

	if err := session.EditMessage(context.Background(), chat.ID, "a1", "corrected"); err != nil {
		t.Fatalf("EditMessage: %v", err)
	}

	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 2 || stored.Messages[1].Content != "corrected" {
		t.Fatalf("assistant edit should replace text only: %+v", stored.Messages)
	}
	client.mu.Lock()
	calls := len(client.requests)
	client.mu.Unlock()
	if calls != 0 {
		t.Fatal("editing an assistant message must not regenerate")
	}
}

func TestDeleteMessageHasNoCascade(t *testing.T) {
	session, state := newTestSession(t, &stubClient{reply: "x"})
	chat := state.NewChat()
	state.UpdateMessages(chat.ID, []domain.Message{
		{ID: "u1", Role: domain.RoleUser, Content: "hi", Timestamp: 1},
		{ID: "a1", Role: domain.RoleAssistant, Content: "yo", Timestamp: 2},
	})

	if err := session.DeleteMessage(chat.ID, "u1"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 1 || stored.Messages[0].ID != "a1" {
		t.Fatalf("only the named message should go: %+v", stored.Messages)
	}
}

func TestRegenerateAppendsFreshExchange(t *testing.T) {
	client := &stubClient{reply: "take two"}
	session, state := newTestSession(t, client)
	chat := state.NewChat()
	emailID := starterID(t, state, "ProEmail")
	state.UpdateMessages(chat.ID, []domain.Message{
		{ID: "u1", Role: domain.RoleUser, Content: "transform me", Timestamp: 1},
		{ID: "a1", Role: domain.RoleAssistant, Content: "take one", Timestamp: 2, TemplateUsedID: emailID},
	})

	reply, err := session.Regenerate(context.Background(), chat.ID, "a1")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if reply.Content != "take two" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	stored, _ := state.Chat(chat.ID)
	if len(stored.Messages) != 4 {
		t.Fatalf("regeneration is non-destructive, expected 4 messages, got %d", len(stored.Messages))
	}
	if stored.Messages[2].Content != "take one" || stored.Messages[2].ID == "a1" || stored.Messages[2].Role != domain.RoleUser {
		t.Fatalf("resent request should carry the assistant message's own content under a new user-role id: %+v", stored.Messages[2])
	}
	if client.lastRequest(t).Prompt != "take one" {
		t.Fatalf("model should receive the regenerated message's content, got %q", client.lastRequest(t).Prompt)
	}
	if stored.Messages[2].TemplateUsedID != emailID {
		t.Fatalf("resent request should keep the source message's template, got %+v", stored.Messages[2])
	}
}

func TestSendToDeletedChatFails(t *testing.T) {
	session, state := newTestSession(t, &stubClient{reply: "late"})
	chat := state.NewChat()
	state.DeleteChat(chat.ID)

	if _, err := session.Send(context.Background(), chat.ID, Draft{Text: "hello"}); !errors.Is(err, ErrUnknownChat) {
		t.Fatalf("expected ErrUnknownChat, got %v", err)
	}
}

func TestFailureNoticeTaxonomy(t *testing.T) {
	if got := FailureNotice(llm.NewConfigError("no key")); !strings.Contains(got, "Configuration Error") {
		t.Fatalf("config notice wrong: %q", got)
	}
	if got := FailureNotice(&llm.LLMError{Type: llm.ErrTypeAuth, Operation: "generate", Message: "401"}); !strings.Contains(got, "Authentication Error") {
		t.Fatalf("auth notice wrong: %q", got)
	}
	netErr := &llm.LLMError{Type: llm.ErrTypeNetwork, Operation: "generate", Message: "dial"}
	if got := FailureNotice(netErr); !strings.Contains(got, "blocking this host") {
		t.Fatalf("network notice should suggest a blocked host: %q", got)
	}
	if got := FailureNotice(errors.New("boom")); got != "Processing Failure: boom" {
		t.Fatalf("default notice wrong: %q", got)
	}
}
