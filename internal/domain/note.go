package domain

import "strings"

// Note is a single user note. Embedding always reflects the current
// Title/Content pair; every write path re-embeds before persisting.
type Note struct {
	ID      int64  `json:"id"`
	Owner   string `json:"user_id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Embedding []float32 `json:"-"`

	// Similarity is the vector distance to the query embedding. It is only
	// populated on notes returned from a similarity search and is never
	// persisted.
	Similarity *float64 `json:"similarity,omitempty"`
}

// EmbeddingText is the canonical text a note is vectorized from.
func (n *Note) EmbeddingText() string {
	return n.Title + " " + n.Content
}

// FallbackTitle derives a title from the first words of content. Used when
// title generation fails or returns blank; never fails itself.
func FallbackTitle(content string) string {
	words := strings.Fields(content)
	if len(words) > 7 {
		words = words[:7]
	}
	return strings.Join(words, " ") + "..."
}
