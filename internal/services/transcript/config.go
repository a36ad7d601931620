// File: internal/services/transcript/config.go
package transcript

import (
	"fmt"
	"time"
)

type Config struct {
	APIURL  string
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("transcript API URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
