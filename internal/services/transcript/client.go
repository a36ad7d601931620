// File: internal/services/transcript/client.go

// Package transcript fetches video transcripts from the external transcript
// API. The service is a collaborator only; failures are typed and callers
// catch them at the call site.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type segment struct {
	Text string `json:"text"`
}

type transcriptResponse struct {
	Segments []segment `json:"segments"`
}

// Fetch returns the full transcript text for a video, with segment text
// joined by spaces.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	if videoID == "" {
		return "", &TranscriptError{Type: ErrTypeValidation, Message: "missing video id"}
	}

	var text string
	err := RetryWithBackoff(ctx, DefaultRetryConfig(), func(ctx context.Context) error {
		var err error
		text, err = c.fetchOnce(ctx, videoID)
		return err
	})
	return text, err
}

func (c *Client) fetchOnce(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s/transcript?videoId=%s", strings.TrimSuffix(c.config.APIURL, "/"), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &TranscriptError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TranscriptError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TranscriptError{Type: ErrTypeProvider, Code: resp.StatusCode, Message: "transcript fetch failed"}
	}

	var body transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TranscriptError{Type: ErrTypeProvider, Message: "malformed transcript response", Cause: err}
	}

	parts := make([]string, 0, len(body.Segments))
	for _, s := range body.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " "), nil
}
