// File: internal/services/transcript/client_test.go
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchJoinsSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("videoId"); got != "abc123" {
			t.Errorf("videoId = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"segments": []map[string]string{
				{"text": "hello"},
				{"text": "world"},
			},
		})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIURL = server.URL
	client := NewClient(cfg)

	text, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("segments should join with spaces: %q", text)
	}
}

func TestFetchRejectsEmptyVideoID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIURL = "http://example.invalid"
	client := NewClient(cfg)

	_, err := client.Fetch(context.Background(), "")
	var terr *TranscriptError
	if !errors.As(err, &terr) || terr.Type != ErrTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRetryStopsOnValidationError(t *testing.T) {
	var calls int32
	err := RetryWithBackoff(context.Background(), &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			return &TranscriptError{Type: ErrTypeValidation, Message: "bad input"}
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("validation errors must not retry, got %d calls", calls)
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	var calls int32
	err := RetryWithBackoff(context.Background(), &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		func(ctx context.Context) error {
			if atomic.AddInt32(&calls, 1) < 3 {
				return &TranscriptError{Type: ErrTypeNetwork, Message: "flaky"}
			}
			return nil
		})
	if err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}
