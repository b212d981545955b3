package assist

import "context"

// Completer issues one constrained chat completion.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}
