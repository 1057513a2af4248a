package analyses

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionNotFound is returned when a session ID has no stored state.
var ErrSessionNotFound = errors.New("session not found")

const (
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeExtraction    = "EXTRACTION_ERROR"
	ErrorCodeConfiguration = "CONFIGURATION_ERROR"
	ErrorCodeRemoteCall    = "REMOTE_CALL_ERROR"
	ErrorCodeLLMTimeout    = "LLM_TIMEOUT"
	ErrorCodeInternal      = "INTERNAL_ERROR"
)

// ExtractionError reports that no text could be read from the upload.
type ExtractionError struct {
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract resume %s: %v", e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConfigurationError reports missing provider credentials. No remote request
// was attempted.
type ConfigurationError struct {
	Provider string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm provider %s not configured", e.Provider)
}

// RemoteCallError reports a failed provider call. Prompt carries the exact
// prompt that was sent so handlers can expose it for debugging.
type RemoteCallError struct {
	Prompt string
	Err    error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("llm call: %v", e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// classifyFailure maps a pipeline error to an HTTP status and error code.
func classifyFailure(err error) (int, string) {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return http.StatusUnprocessableEntity, ErrorCodeExtraction
	}
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return http.StatusServiceUnavailable, ErrorCodeConfiguration
	}
	var remoteErr *RemoteCallError
	if errors.As(err, &remoteErr) {
		if isTimeout(remoteErr.Err) {
			return http.StatusBadGateway, ErrorCodeLLMTimeout
		}
		return http.StatusBadGateway, ErrorCodeRemoteCall
	}
	return http.StatusInternalServerError, ErrorCodeInternal
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
