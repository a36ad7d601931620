// File: internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ampersand-labs/homework/internal/composer"
	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/services"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

type ChatHandler struct {
	State    *statesync.Coordinator
	Composer *composer.Session
	Logger   services.Logger
}

func NewChatHandler(state *statesync.Coordinator, comp *composer.Session, logger services.Logger) *ChatHandler {
	return &ChatHandler{State: state, Composer: comp, Logger: logger}
}

// ListChats returns the chat collection in display order, plus the active
// chat id.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chats":        h.State.Chats(),
		"activeChatId": h.State.ActiveChatID(),
	})
}

// CreateChat starts a new empty chat and makes it active.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	chat := h.State.NewChat()
	writeJSON(w, http.StatusCreated, chat)
}

// GetChat returns one chat with its full transcript.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.State.Chat(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// SelectChat makes a chat active.
func (h *ChatHandler) SelectChat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.State.SelectChat(id) {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"activeChatId": id})
}

// DeleteChat removes a chat by id.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	h.State.DeleteChat(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]string{"activeChatId": h.State.ActiveChatID()})
}

// SendMessage submits the composer draft to a chat and returns the
// assistant reply. Generation failures are part of the reply, not an HTTP
// error.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["id"]
	var draft composer.Draft
	if !decodeBody(w, r, &draft) {
		return
	}

	reply, err := h.Composer.Send(r.Context(), chatID, draft)
	if err != nil {
		h.composerError(w, err)
		return
	}
	h.respondExchange(w, chatID, reply)
}

// InvokeTemplate submits a three-section invocation form to a chat.
func (h *ChatHandler) InvokeTemplate(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["id"]
	var req struct {
		domain.TemplateUsage
		Files []domain.FileAttachment `json:"files,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.Composer.InvokeThreeSection(r.Context(), chatID, req.TemplateUsage, req.Files)
	if err != nil {
		h.composerError(w, err)
		return
	}
	h.respondExchange(w, chatID, reply)
}

// EditMessage edits a stored message. Editing a user message truncates and
// regenerates; editing an assistant message is text-only.
func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Composer.EditMessage(r.Context(), vars["id"], vars["messageId"], req.Content); err != nil {
		h.composerError(w, err)
		return
	}
	chat, _ := h.State.Chat(vars["id"])
	writeJSON(w, http.StatusOK, chat)
}

// DeleteMessage removes one message with no cascade.
func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.Composer.DeleteMessage(vars["id"], vars["messageId"]); err != nil {
		h.composerError(w, err)
		return
	}
	chat, _ := h.State.Chat(vars["id"])
	writeJSON(w, http.StatusOK, chat)
}

// RegenerateMessage reruns the exchange behind an assistant message as a
// fresh request appended to the chat.
func (h *ChatHandler) RegenerateMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reply, err := h.Composer.Regenerate(r.Context(), vars["id"], vars["messageId"])
	if err != nil {
		h.composerError(w, err)
		return
	}
	h.respondExchange(w, vars["id"], reply)
}

func (h *ChatHandler) respondExchange(w http.ResponseWriter, chatID string, reply domain.Message) {
	chat, _ := h.State.Chat(chatID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reply": reply,
		"chat":  chat,
	})
}

func (h *ChatHandler) composerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, composer.ErrUnknownChat), errors.Is(err, composer.ErrUnknownMessage), errors.Is(err, composer.ErrUnknownTemplate):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, composer.ErrEmptyDraft), errors.Is(err, composer.ErrMissingFields):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.Logger.Error("chat operation failed", "error", err)
		writeError(w, "Error processing chat", http.StatusInternalServerError)
	}
}
