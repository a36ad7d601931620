// File: internal/handlers/transcript_handler.go
package handlers

import (
	"net/http"

	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/transcript"
)

type TranscriptHandler struct {
	Client *transcript.Client
	Logger services.Logger
}

func NewTranscriptHandler(client *transcript.Client, logger services.Logger) *TranscriptHandler {
	return &TranscriptHandler{Client: client, Logger: logger}
}

// FetchTranscript retrieves a video transcript for use as context material.
// The composer drops the text into the side context panel.
func (h *TranscriptHandler) FetchTranscript(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		writeError(w, "Transcript service is not configured", http.StatusServiceUnavailable)
		return
	}
	videoID := r.URL.Query().Get("videoId")
	if videoID == "" {
		writeError(w, "videoId is required", http.StatusBadRequest)
		return
	}

	text, err := h.Client.Fetch(r.Context(), videoID)
	if err != nil {
		h.Logger.Warn("transcript fetch failed", "video_id", videoID, "error", err)
		writeError(w, "Could not fetch transcript", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"videoId": videoID, "transcript": text})
}
