// File: internal/services/transcript/errors.go
package transcript

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
)

type TranscriptError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *TranscriptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcript %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("transcript %s error: %s", e.Type, e.Message)
}

func (e *TranscriptError) Unwrap() error { return e.Cause }
