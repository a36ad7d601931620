// File: internal/handlers/template_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/services"
	statesync "github.com/ampersand-labs/homework/internal/sync"
	"github.com/ampersand-labs/homework/internal/template"
)

type TemplateHandler struct {
	State  *statesync.Coordinator
	Logger services.Logger
}

func NewTemplateHandler(state *statesync.Coordinator, logger services.Logger) *TemplateHandler {
	return &TemplateHandler{State: state, Logger: logger}
}

// ListTemplates returns the template collection. With ?q= it returns the
// autocomplete subset instead, filtered by case-insensitive substring match
// on name.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := h.State.Templates()
	if q := r.URL.Query().Get("q"); q != "" {
		templates = template.Filter(templates, q)
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate returns a single template, including its cached prompt.
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.State.Template(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "Template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// SaveTemplate creates or updates a template. The preview prompt is
// re-rendered from the template's own worked examples on every save.
func (h *TemplateHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.StyleTemplate
	if !decodeBody(w, r, &t) {
		return
	}
	if id := mux.Vars(r)["id"]; id != "" {
		t.ID = id
	}
	if t.Name == "" {
		writeError(w, "Template name is required", http.StatusBadRequest)
		return
	}
	if t.Type == domain.TemplateTypeThreeSection && t.ThreeSection == nil {
		writeError(w, "Three-section templates need a section definition", http.StatusBadRequest)
		return
	}

	saved := h.State.SaveTemplate(t)
	status := http.StatusOK
	if t.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// DeleteTemplate removes a template by id.
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	h.State.DeleteTemplate(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PreviewTemplate renders the prompt a template definition would produce,
// without saving it. Used by the template editor.
func (h *TemplateHandler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.StyleTemplate
	if !decodeBody(w, r, &t) {
		return
	}
	if t.Type == "" {
		t.Type = domain.TemplateTypeStandard
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": template.CachedPrompt(&t)})
}
