package assist

import (
	"context"
	"fmt"
	"strings"
)

const contentPrompt = `You are a helpful assistant that generates well-formatted plain text content for notes.
DO NOT use any markdown syntax like #, *, _, -, or backticks.
Format your response as plain text only.
For lists:
- Use simple numbers or letters followed by periods (1., 2., a., b.)
- Use simple bullet characters
- Do not use markdown formatting for lists
For emphasis: Use ALL CAPS instead of bold or italic markdown
For sections: Use plain text headings followed by line breaks, not markdown headings
Keep your response concise and focused on the user's request.`

const contentMaxTokens = 200

// ContentWriter drafts a note body from an utterance, used by the
// create_note and request intents.
type ContentWriter struct {
	completer Completer
}

// NewContentWriter creates a content writer.
func NewContentWriter(completer Completer) *ContentWriter {
	return &ContentWriter{completer: completer}
}

// GenerateContent returns the drafted note body. Failure propagates: with no
// content there is nothing to insert.
func (w *ContentWriter) GenerateContent(ctx context.Context, query string) (string, error) {
	userMsg := fmt.Sprintf(
		"Generate well-formatted plain text content (NO MARKDOWN) for the following request: %q", query,
	)
	reply, err := w.completer.Complete(ctx, contentPrompt, userMsg, contentMaxTokens)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
