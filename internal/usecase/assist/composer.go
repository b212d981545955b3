package assist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

const composeMaxTokens = 200

// Canned fallbacks, keyed only on result emptiness. Used whenever the
// composition call fails so a router response always carries a message.
const (
	fallbackEmpty = "Sorry, I couldn't find any notes matching your query. Try adjusting the sensitivity."
	fallbackFound = "Here are your notes."
)

// Composer writes the short confirmation message returned with every routed
// query.
type Composer struct {
	completer Completer
	logger    *zap.Logger
}

// NewComposer creates a response composer.
func NewComposer(completer Completer, logger *zap.Logger) *Composer {
	return &Composer{completer: completer, logger: logger}
}

// Compose produces the confirmation message for a routed query. It never
// fails; a provider failure falls back to a canned string.
func (c *Composer) Compose(
	ctx context.Context, query string, intent domain.Intent, notes []domain.Note,
) string {
	reply, err := c.completer.Complete(ctx, composePrompt(query, intent, notes), query, composeMaxTokens)
	if err != nil {
		c.logger.Warn("Response composition failed, using canned message", zap.Error(err))
		return cannedMessage(notes)
	}
	if strings.TrimSpace(reply) == "" {
		return cannedMessage(notes)
	}
	return strings.TrimSpace(reply)
}

func composePrompt(query string, intent domain.Intent, notes []domain.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an AI assistant in a note-taking app.
The user asked: %q
The detected intent is: %q

You will give a response in reference to what the user asked.
`, query, intent)

	if len(notes) == 0 {
		b.WriteString(`No notes were found matching the user's query. Respond with a message like:
"Sorry, I couldn't find any notes related to [brief topic]. Try adjusting the sensitivity to see more results."
`)
	} else {
		titles := make([]string, len(notes))
		for i, n := range notes {
			titles[i] = n.Title
		}
		fmt.Fprintf(&b, `Based on the intent:
- For "show_all": Mention you're showing all their notes
- For "search": Mention you found notes matching their search
- For "create_note": Confirm the note was created with a message like "I've created your note about [brief topic]"
- For "delete_notes": Confirm which notes were found for deletion
- For "delete_all": Confirm all notes are ready for deletion
- For "edit_notes": Say something like "Here are the notes you want to edit."
- For "request": Confirm you created content based on their request with a message like "I've created a note with [brief description]"

The app found these notes that are relevant to the request: %s

Please write a short, friendly response summarizing this like:
"Here are the notes that match your [intent-specific action] about [brief summary of query]."
`, strings.Join(titles, ", "))
	}

	b.WriteString("\nKeep the response under 100 characters.")
	return b.String()
}

func cannedMessage(notes []domain.Note) string {
	if len(notes) == 0 {
		return fallbackEmpty
	}
	return fallbackFound
}
