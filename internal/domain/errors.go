package domain

import "errors"

var (
	// ErrNoteNotFound signals a missing note.
	ErrNoteNotFound = errors.New("note not found")
	// ErrEmptyContent signals a create/update with no content.
	ErrEmptyContent = errors.New("content is required")
	// ErrEmbeddingProvider signals an embedding provider failure. Fatal to
	// the current request: there is no fallback for a search with no vector.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrCompletionProvider signals a chat completion provider failure.
	ErrCompletionProvider = errors.New("completion provider error")
	// ErrTranscriptionProvider signals a speech-to-text provider failure.
	ErrTranscriptionProvider = errors.New("transcription provider error")
	// ErrClassification signals a failed intent classification. Recovered
	// by the router with the default search intent.
	ErrClassification = errors.New("intent classification failed")
)
