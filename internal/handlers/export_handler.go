// File: internal/handlers/export_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ampersand-labs/homework/internal/export"
	"github.com/ampersand-labs/homework/internal/services"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

type ExportHandler struct {
	State  *statesync.Coordinator
	Logger services.Logger
}

func NewExportHandler(state *statesync.Coordinator, logger services.Logger) *ExportHandler {
	return &ExportHandler{State: state, Logger: logger}
}

// ExportAll downloads the full backup bundle as JSON.
func (h *ExportHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	data, err := export.JSON(h.State.Chats(), h.State.Templates(), h.State.Settings())
	if err != nil {
		h.Logger.Error("export failed", "error", err)
		writeError(w, "Could not build export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="homework-export.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ExportChat downloads one chat transcript. ?format=html selects HTML;
// the default is Markdown.
func (h *ExportHandler) ExportChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.State.Chat(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		data, err := export.HTML(chat)
		if err != nil {
			h.Logger.Error("chat export failed", "chat_id", chat.ID, "error", err)
			writeError(w, "Could not render chat", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="chat-%s.html"`, chat.ID))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="chat-%s.md"`, chat.ID))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.Markdown(chat)))
}
