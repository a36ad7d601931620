// File: internal/services/llm/openai_provider.go
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/template"
)

// FallbackText is returned when the endpoint answers successfully but
// produces no text.
const FallbackText = "I was unable to generate a response. Please try a different prompt."

const titleSystemPrompt = "You are a helpful assistant. Generate a short, concise title (max 4-5 words) " +
	"for the following user message. Do not use quotes. Output ONLY the title text."

// OpenAIProvider talks to any OpenAI-compatible completion endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Generate sends the assembled prompt plus trimmed history and returns the
// completion text. Transient failures are retried up to MaxRetries attempts
// with RetryDelay between them.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if p.config.APIKey == "" {
		return "", NewConfigError("completion API key is missing")
	}

	request := openai.ChatCompletionRequest{
		Model:       p.model(req.Model),
		Messages:    p.buildMessages(req),
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	attempts := p.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr *LLMError
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := p.client.CreateChatCompletion(ctx, request)
		if err == nil {
			if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
				return FallbackText, nil
			}
			return resp.Choices[0].Message.Content, nil
		}
		lastErr = classify("completion", err)
		if !retryable(lastErr) {
			return "", lastErr
		}
		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return "", lastErr
			case <-time.After(p.config.RetryDelay):
			}
		}
	}
	return "", lastErr
}

// retryable reports whether a completion failure is worth another attempt.
// Credential and request problems are permanent; network failures and
// server-side 429/5xx answers are transient.
func retryable(err *LLMError) bool {
	if err.Type == ErrTypeNetwork {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err.Cause, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}

// GenerateTitle derives a short chat title. Failures degrade to the default
// title rather than an error the caller must handle.
func (p *OpenAIProvider) GenerateTitle(ctx context.Context, userInput string) (string, error) {
	if p.config.APIKey == "" {
		return "", NewConfigError("completion API key is missing")
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.TitleModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userInput},
		},
		Temperature: 0.5,
		MaxTokens:   20,
	})
	if err != nil {
		return "", classify("title", err)
	}
	if len(resp.Choices) == 0 {
		return "", NewProviderError("title", "empty title response", nil)
	}
	title := strings.TrimSpace(resp.Choices[0].Message.Content)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return "", NewProviderError("title", "empty title response", nil)
	}
	return title, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if p.config.APIKey == "" {
		return NewConfigError("completion API key is missing")
	}
	return nil
}

func (p *OpenAIProvider) model(requested string) string {
	if requested != "" {
		return requested
	}
	return p.config.ChatModel
}

// buildMessages assembles the outgoing conversation: global system
// instruction, the bounded recent history, then the final user content with
// any standard-template expansion and attachment manifest applied.
func (p *OpenAIProvider) buildMessages(req GenerateRequest) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: template.SystemInstruction},
	}

	history := req.History
	if len(history) > p.config.HistoryWindow {
		history = history[len(history)-p.config.HistoryWindow:]
	}
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Role == domain.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	finalPrompt := req.Prompt
	if req.Template != nil && req.Template.Type == domain.TemplateTypeStandard {
		finalPrompt = template.RenderStandard(req.Template, req.Prompt)
	}
	if len(req.Attachments) > 0 {
		names := make([]string, len(req.Attachments))
		for i, a := range req.Attachments {
			names[i] = a.Name
		}
		finalPrompt += "\n\n[USER ATTACHED FILES: " + strings.Join(names, ", ") + "]"
	}

	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: finalPrompt})
}

// classify maps transport errors onto the package taxonomy so callers can
// choose the right user-visible failure text.
func classify(operation string, err error) *LLMError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403 {
			return &LLMError{Type: ErrTypeAuth, Operation: operation, Message: "invalid API credentials", Cause: err}
		}
		return &LLMError{Type: ErrTypeProvider, Operation: operation, Message: apiErr.Message, Cause: err}
	}
	msg := err.Error()
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "TLS") {
		return &LLMError{Type: ErrTypeNetwork, Operation: operation, Message: "unable to reach completion endpoint", Cause: err}
	}
	return NewProviderError(operation, "completion request failed", err)
}
