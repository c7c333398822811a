package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel transport errors. Adapters wrap the underlying cause so callers
// can match with errors.Is while logs keep the detail.
var (
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	ErrBackendTimeout     = errors.New("generation backend timed out")
)

// MalformedResponseError means the backend answered but the payload was not
// parseable JSON even after sanitization.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	snippet := e.Raw
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	return fmt.Sprintf("backend returned non-JSON payload: %q", snippet)
}

// SchemaValidationError means the payload parsed but could not be repaired
// into the shape the feature requires.
type SchemaValidationError struct {
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return "response failed schema validation: " + e.Reason
}

// ExtractionExhaustedError means every extraction method in the fallback
// chain produced unusable output.
type ExtractionExhaustedError struct {
	Methods []string
}

func (e *ExtractionExhaustedError) Error() string {
	return "all extraction methods failed: " + strings.Join(e.Methods, ", ")
}
