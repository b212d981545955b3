package assist

import (
	"context"
	"fmt"
	"strings"
)

// NoContent is the sentinel the trimmer returns when an utterance carries no
// payload beyond the command itself. Callers treat it as "nothing to search".
const NoContent = "No Content Found"

const trimPrompt = `Extract only the content of the note from the user's speech. Remove any command-like phrases.
Be very exact with the remaining content, copying it word for word. Typical command words or phrases would include the following:
"delete", "show", "delete my notes", "remove", "display", "edit", "update", "revise".`

const trimMaxTokens = 20

// Trimmer strips command phrasing from an utterance, leaving the payload
// verbatim. The payload becomes the literal similarity-search query, so any
// paraphrasing here would shift match results.
type Trimmer struct {
	completer Completer
}

// NewTrimmer creates a command trimmer.
func NewTrimmer(completer Completer) *Trimmer {
	return &Trimmer{completer: completer}
}

// Trim isolates the semantic payload of an utterance. An empty extraction
// yields the NoContent sentinel.
func (t *Trimmer) Trim(ctx context.Context, utterance string) (string, error) {
	reply, err := t.completer.Complete(ctx, trimPrompt, utterance, trimMaxTokens)
	if err != nil {
		return "", fmt.Errorf("trim command: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return NoContent, nil
	}
	return strings.TrimSpace(reply), nil
}
