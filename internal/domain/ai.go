package domain

import (
	"context"
	"io"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding   []float32
	TotalTokens int
}

// Completer issues one constrained chat completion. Callers must treat the
// reply as untrusted free text and normalize it at the boundary.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}

// Transcriber converts an audio recording to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
