// Package ai turns check-in tasks into short coaching nudges and weekly
// entry lists into three-part summaries, falling back to canned text
// whenever the language model is unavailable.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Completer sends one system + user prompt pair to a chat model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string, options CompletionOptions) (string, error)
}

type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	// JSON asks the model for a single JSON object.
	JSON bool
}

// UpstreamError wraps any failure of the language model call.
type UpstreamError struct {
	Operation string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
