// File: internal/services/llm/config.go
package llm

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string

	// Model Configuration
	ChatModel  string
	TitleModel string

	// Performance Configuration
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Model Parameters
	Temperature float32
	MaxTokens   int

	// HistoryWindow bounds how many prior turns accompany a request.
	HistoryWindow int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("chat model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("history window must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://api.groq.com/openai/v1",
		ChatModel:     "llama-3.1-70b-versatile",
		TitleModel:    "llama-3.3-70b-versatile",
		Timeout:       2 * time.Minute,
		MaxRetries:    3,
		RetryDelay:    2 * time.Second,
		Temperature:   0.7,
		MaxTokens:     8192,
		HistoryWindow: 10,
	}
}
