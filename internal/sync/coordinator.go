// File: internal/sync/coordinator.go

// Package sync owns the authoritative in-memory application state: the chat
// collection, the template collection, settings, and the current user. All
// mutation flows through the coordinator's single serialized update path;
// the view layer only reads snapshots and dispatches commands.
//
// Persistence is optimistic: the in-memory update and the synchronous local
// snapshot write always happen first, and for cloud sessions a best-effort
// remote write follows in the background. A remote failure surfaces as a
// transient notification, never a rollback.
package sync

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/store/local"
	"github.com/ampersand-labs/homework/internal/store/remote"
	"github.com/ampersand-labs/homework/internal/template"
)

// Notification levels for transient, auto-dismissing messages.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Notification is an ephemeral message for the user; it never alters the
// transcript.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NotifyFunc receives transient notifications.
type NotifyFunc func(Notification)

const remoteWriteTimeout = 30 * time.Second

// Coordinator keeps local and remote state consistent while never blocking
// its callers on the network.
type Coordinator struct {
	mu     sync.Mutex
	local  *local.Store
	remote remote.Store
	logger services.Logger
	notify NotifyFunc

	user         *domain.User
	chats        []domain.Chat
	templates    []domain.StyleTemplate
	settings     domain.AppSettings
	activeChatID string

	// pending tracks in-flight remote writes so tests and shutdown can
	// drain them.
	pending sync.WaitGroup
}

// New creates a coordinator. remoteStore may be nil when no cloud backend
// is configured; notify may be nil.
func New(localStore *local.Store, remoteStore remote.Store, logger services.Logger, notify NotifyFunc) *Coordinator {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	if notify == nil {
		notify = func(Notification) {}
	}
	return &Coordinator{
		local:    localStore,
		remote:   remoteStore,
		logger:   logger,
		notify:   notify,
		settings: domain.DefaultSettings(),
	}
}

// Start runs the session startup protocol: restore the provisional user
// from local storage, then load collections. For cloud users the remote
// collections are fetched and merged; any remote failure falls back to
// local-only state with a non-fatal notification.
func (c *Coordinator) Start(ctx context.Context) error {
	user, err := c.local.LoadUser()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.loadLocalCollections()

	if user != nil && user.IsCloud {
		c.mergeRemote(ctx, user.ID)
	}
	return nil
}

// Login adopts an authenticated identity as the current user. It supersedes
// any provisional user, is persisted locally, and for cloud users triggers
// the remote fetch-and-merge.
func (c *Coordinator) Login(ctx context.Context, user domain.User) {
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	if err := c.local.SaveUser(user); err != nil {
		c.logger.Error("failed to persist user", "error", err)
	}

	c.loadLocalCollections()
	if user.IsCloud {
		c.mergeRemote(ctx, user.ID)
	}
}

// Logout clears the current user and the cached user record, and resets the
// in-memory view: empty chats, starter templates. Local collection
// snapshots are deliberately left on disk.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	c.user = nil
	c.chats = nil
	c.templates = template.Starter()
	c.activeChatID = ""
	c.mu.Unlock()

	if err := c.local.ClearUser(); err != nil {
		c.logger.Error("failed to clear user record", "error", err)
	}
}

// loadLocalCollections loads whichever collections exist in local storage.
// A missing chat list yields an empty collection; a missing template list
// is seeded with the built-in starter set.
func (c *Coordinator) loadLocalCollections() {
	chats, err := c.local.LoadChats()
	if err != nil {
		c.logger.Error("failed to load local chats", "error", err)
	}
	templates, ok, err := c.local.LoadTemplates()
	if err != nil {
		c.logger.Error("failed to load local templates", "error", err)
	}
	if !ok || len(templates) == 0 {
		templates = template.Starter()
	}
	settings, err := c.local.LoadSettings()
	if err != nil {
		c.logger.Error("failed to load settings", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats = sortChats(chats)
	c.templates = templates
	c.settings = settings
	if c.activeChatID == "" && len(c.chats) > 0 {
		c.activeChatID = c.chats[0].ID
	}
}

// mergeRemote fetches the remote collections and merges them into memory.
// Remote is authoritative for chats on id collision; templates are only
// appended when absent locally.
func (c *Coordinator) mergeRemote(ctx context.Context, userID string) {
	if c.remote == nil {
		return
	}

	type fetchResult struct {
		chats     []domain.Chat
		templates []domain.StyleTemplate
		err       error
	}

	chatCh := make(chan fetchResult, 1)
	tmplCh := make(chan fetchResult, 1)
	go func() {
		chats, err := c.remote.GetChats(ctx, userID)
		chatCh <- fetchResult{chats: chats, err: err}
	}()
	go func() {
		templates, err := c.remote.GetTemplates(ctx, userID)
		tmplCh <- fetchResult{templates: templates, err: err}
	}()

	chatRes, tmplRes := <-chatCh, <-tmplCh
	if chatRes.err != nil || tmplRes.err != nil {
		err := chatRes.err
		if err == nil {
			err = tmplRes.err
		}
		c.logger.Warn("remote fetch failed, staying local-only", "error", err)
		c.notify(Notification{Level: LevelError, Message: "Cloud sync unavailable. Working with local data."})
		return
	}

	c.mu.Lock()
	c.chats = MergeChats(c.chats, chatRes.chats)
	c.templates = MergeTemplates(c.templates, tmplRes.templates)
	if c.activeChatID == "" && len(c.chats) > 0 {
		c.activeChatID = c.chats[0].ID
	}
	c.mu.Unlock()

	c.persistChats()
	c.persistTemplates()
}

// ---- read accessors ----

// CurrentUser returns a copy of the current user, or nil.
func (c *Coordinator) CurrentUser() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Chats returns a snapshot of the chat collection in display order.
func (c *Coordinator) Chats() []domain.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Chat, len(c.chats))
	copy(out, c.chats)
	return out
}

// Templates returns a snapshot of the template collection.
func (c *Coordinator) Templates() []domain.StyleTemplate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.StyleTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Settings returns the current settings record.
func (c *Coordinator) Settings() domain.AppSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// ActiveChatID returns the selected chat id, or "" when none is active.
func (c *Coordinator) ActiveChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeChatID
}

// Chat returns a copy of one chat by id.
func (c *Coordinator) Chat(id string) (domain.Chat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chats {
		if c.chats[i].ID == id {
			return cloneChat(c.chats[i]), true
		}
	}
	return domain.Chat{}, false
}

// Template returns a copy of one template by id.
func (c *Coordinator) Template(id string) (domain.StyleTemplate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.templates {
		if c.templates[i].ID == id {
			return c.templates[i], true
		}
	}
	return domain.StyleTemplate{}, false
}

// ---- chat mutations ----

// NewChat creates an empty chat with the placeholder title, inserts it at
// the front of the collection, and makes it active.
func (c *Coordinator) NewChat() domain.Chat {
	now := time.Now().UnixMilli()
	chat := domain.Chat{
		ID:            uuid.NewString(),
		Title:         domain.PlaceholderTitle,
		Messages:      []domain.Message{},
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	c.mu.Lock()
	c.chats = append([]domain.Chat{chat}, c.chats...)
	c.activeChatID = chat.ID
	c.mu.Unlock()

	c.persistChats()
	c.remoteUpsertChat(chat)
	return chat
}

// SelectChat makes the chat with the given id active, if present.
func (c *Coordinator) SelectChat(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chats {
		if c.chats[i].ID == id {
			c.activeChatID = id
			return true
		}
	}
	return false
}

// UpdateMessages replaces a chat's message list, derives a title from the
// first user message while the placeholder is still in place, and bumps
// LastUpdatedAt. A stale chat id is a silent no-op.
func (c *Coordinator) UpdateMessages(chatID string, messages []domain.Message) {
	var updated domain.Chat
	found := false

	c.mu.Lock()
	for i := range c.chats {
		if c.chats[i].ID != chatID {
			continue
		}
		chat := &c.chats[i]
		chat.Messages = messages
		if len(messages) > 0 && chat.HasPlaceholderTitle() {
			if first := chat.FirstUserMessage(); first != nil {
				chat.Title = deriveTitle(first.Content)
			}
		}
		chat.LastUpdatedAt = time.Now().UnixMilli()
		updated = cloneChat(*chat)
		found = true
		break
	}
	if found {
		c.chats = sortChats(c.chats)
	}
	c.mu.Unlock()

	if !found {
		return
	}
	c.persistChats()
	c.remoteUpsertChat(updated)
}

// SetChatTitle applies a background-derived title. It targets the chat by
// id and is a silent no-op if the chat is gone or already renamed.
func (c *Coordinator) SetChatTitle(chatID, title string) {
	if title == "" {
		return
	}

	var updated domain.Chat
	found := false

	c.mu.Lock()
	for i := range c.chats {
		if c.chats[i].ID != chatID {
			continue
		}
		c.chats[i].Title = title
		c.chats[i].LastUpdatedAt = time.Now().UnixMilli()
		updated = cloneChat(c.chats[i])
		found = true
		break
	}
	if found {
		c.chats = sortChats(c.chats)
	}
	c.mu.Unlock()

	if !found {
		return
	}
	c.persistChats()
	c.remoteUpsertChat(updated)
}

// DeleteChat removes a chat by id. If it was active, the new first element
// becomes active, or no chat when the list is empty.
func (c *Coordinator) DeleteChat(id string) {
	c.mu.Lock()
	kept := c.chats[:0]
	removed := false
	for _, chat := range c.chats {
		if chat.ID == id {
			removed = true
			continue
		}
		kept = append(kept, chat)
	}
	c.chats = kept
	if c.activeChatID == id {
		if len(c.chats) > 0 {
			c.activeChatID = c.chats[0].ID
		} else {
			c.activeChatID = ""
		}
	}
	c.mu.Unlock()

	if !removed {
		return
	}
	c.persistChats()
	c.remoteDeleteChat(id)
}

// ---- template mutations ----

// SaveTemplate creates or updates a style template. New templates get a
// generated id and are inserted at the front; the cached preview prompt is
// re-rendered on every save.
func (c *Coordinator) SaveTemplate(t domain.StyleTemplate) domain.StyleTemplate {
	now := time.Now().UnixMilli()
	if t.Type == "" {
		t.Type = domain.TemplateTypeStandard
	}
	t.SystemPrompt = template.CachedPrompt(&t)

	c.mu.Lock()
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = now
		c.templates = append([]domain.StyleTemplate{t}, c.templates...)
	} else {
		replaced := false
		for i := range c.templates {
			if c.templates[i].ID == t.ID {
				if t.CreatedAt == 0 {
					t.CreatedAt = c.templates[i].CreatedAt
				}
				c.templates[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			c.templates = append([]domain.StyleTemplate{t}, c.templates...)
		}
	}
	c.mu.Unlock()

	c.persistTemplates()
	c.remoteUpsertTemplate(t)
	return t
}

// RecordTemplateUse bumps a template's usage stats after an invocation.
func (c *Coordinator) RecordTemplateUse(id string) {
	var updated domain.StyleTemplate
	found := false

	c.mu.Lock()
	for i := range c.templates {
		if c.templates[i].ID == id {
			c.templates[i].UseCount++
			c.templates[i].LastUsedAt = time.Now().UnixMilli()
			updated = c.templates[i]
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return
	}
	c.persistTemplates()
	c.remoteUpsertTemplate(updated)
}

// DeleteTemplate removes a template by id.
func (c *Coordinator) DeleteTemplate(id string) {
	c.mu.Lock()
	kept := c.templates[:0]
	removed := false
	for _, t := range c.templates {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	c.templates = kept
	c.mu.Unlock()

	if !removed {
		return
	}
	c.persistTemplates()
	c.remoteDeleteTemplate(id)
}

// UpdateSettings replaces the settings record wholesale.
func (c *Coordinator) UpdateSettings(settings domain.AppSettings) {
	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()

	if err := c.local.SaveSettings(settings); err != nil {
		c.logger.Error("failed to persist settings", "error", err)
		c.notify(Notification{Level: LevelError, Message: "Failed to save settings."})
	}
}

// ---- persistence plumbing ----

func (c *Coordinator) persistChats() {
	if err := c.local.SaveChats(c.Chats()); err != nil {
		c.logger.Error("failed to persist chats", "error", err)
		c.notify(Notification{Level: LevelError, Message: "Failed to save chats to device storage."})
	}
}

func (c *Coordinator) persistTemplates() {
	if err := c.local.SaveTemplates(c.Templates()); err != nil {
		c.logger.Error("failed to persist templates", "error", err)
		c.notify(Notification{Level: LevelError, Message: "Failed to save templates to device storage."})
	}
}

func (c *Coordinator) cloudUserID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil || !c.user.IsCloud {
		return "", false
	}
	return c.user.ID, true
}

// remoteWrite runs a single-record remote operation in the background. The
// caller is never blocked and never sees the error; failures only produce a
// notification.
func (c *Coordinator) remoteWrite(what string, fn func(ctx context.Context) error) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			c.logger.Warn("remote write failed", "op", what, "error", err)
			c.notify(Notification{Level: LevelError, Message: "Cloud sync failed for this change. Local copy is safe."})
		}
	}()
}

func (c *Coordinator) remoteUpsertChat(chat domain.Chat) {
	userID, ok := c.cloudUserID()
	if !ok || c.remote == nil {
		return
	}
	c.remoteWrite("upsert chat", func(ctx context.Context) error {
		return c.remote.UpsertChat(ctx, userID, chat)
	})
}

func (c *Coordinator) remoteDeleteChat(chatID string) {
	if _, ok := c.cloudUserID(); !ok || c.remote == nil {
		return
	}
	c.remoteWrite("delete chat", func(ctx context.Context) error {
		return c.remote.DeleteChat(ctx, chatID)
	})
}

func (c *Coordinator) remoteUpsertTemplate(t domain.StyleTemplate) {
	userID, ok := c.cloudUserID()
	if !ok || c.remote == nil {
		return
	}
	c.remoteWrite("upsert template", func(ctx context.Context) error {
		return c.remote.UpsertTemplate(ctx, userID, t)
	})
}

func (c *Coordinator) remoteDeleteTemplate(templateID string) {
	if _, ok := c.cloudUserID(); !ok || c.remote == nil {
		return
	}
	c.remoteWrite("delete template", func(ctx context.Context) error {
		return c.remote.DeleteTemplate(ctx, templateID)
	})
}

// Flush waits for in-flight remote writes to finish. Used by shutdown and
// tests.
func (c *Coordinator) Flush() {
	c.pending.Wait()
}

// ---- helpers ----

func cloneChat(chat domain.Chat) domain.Chat {
	out := chat
	out.Messages = make([]domain.Message, len(chat.Messages))
	copy(out.Messages, chat.Messages)
	return out
}

func sortChats(chats []domain.Chat) []domain.Chat {
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastUpdatedAt > chats[j].LastUpdatedAt
	})
	return chats
}

// deriveTitle truncates the first user message into a display title.
func deriveTitle(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) > 32 {
		return string(runes[:32]) + "..."
	}
	return string(runes)
}
