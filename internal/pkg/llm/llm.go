// Package llm abstracts a text-in, text-out language model.
package llm

import "context"

// Client sends a single prompt and returns the model's text. Implementations
// must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	// SourceName is a short provider label for logs, e.g. "Claude".
	SourceName() string
}
