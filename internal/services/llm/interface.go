// File: internal/services/llm/interface.go

// Package llm wraps the external chat-completion endpoint. It owns prompt
// framing (system instruction, trimmed history, standard-template few-shot
// expansion) and maps transport failures to a typed error taxonomy the
// composer can render inline.
package llm

import (
	"context"

	"github.com/ampersand-labs/homework/internal/domain"
)

// GenerateRequest is one completion call.
type GenerateRequest struct {
	// Prompt is the final assembled user content.
	Prompt string
	// History is the chat's prior turns, excluding the message being sent.
	// It is trimmed to a bounded recent window before dispatch.
	History []domain.Message
	// Template, when set and of standard type, is expanded into the
	// few-shot learning frame around Prompt. Three-section prompts arrive
	// already rendered and carry no template here.
	Template *domain.StyleTemplate
	// Attachments are listed by name in the outgoing prompt; payloads stay
	// client-side for this provider.
	Attachments []domain.FileAttachment
	// Model identifies the completion model.
	Model string
	// ThinkingBudget is zero unless extended reasoning was explicitly
	// enabled. Providers without reasoning support ignore it.
	ThinkingBudget int
}

// Client is the model-client contract.
type Client interface {
	// Generate returns the completion text. A call that logically succeeds
	// but produces no text returns a human-readable fallback string, not an
	// error.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// GenerateTitle derives a short chat title from the first user message.
	GenerateTitle(ctx context.Context, userInput string) (string, error)
	HealthCheck(ctx context.Context) error
}
