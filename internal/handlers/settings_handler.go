// File: internal/handlers/settings_handler.go
package handlers

import (
	"net/http"

	"github.com/ampersand-labs/homework/internal/domain"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

type SettingsHandler struct {
	State *statesync.Coordinator
}

func NewSettingsHandler(state *statesync.Coordinator) *SettingsHandler {
	return &SettingsHandler{State: state}
}

// GetSettings returns the current settings record.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.Settings())
}

// UpdateSettings replaces the settings record wholesale.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.AppSettings
	if !decodeBody(w, r, &settings) {
		return
	}
	h.State.UpdateSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}
