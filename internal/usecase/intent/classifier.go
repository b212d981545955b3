package intent

import (
	"context"
	"fmt"

	"github.com/talkpad/talkpad/internal/domain"
)

const (
	systemPrompt = `You are an intent classification assistant for a note-taking app.
You will receive a user query. Your job is to classify the query into one of these categories:
1. "show_all" - if the user wants to see all their notes (examples: "show me all notes", "list everything", "display all my notes").
2. "search" - if the user wants to search for something specific (examples: "find notes about AI", "show me notes about meetings").
3. "create_note" - if the user wants to create a new note with some content they define/dictate (examples: "write this down", "create a note that says")
4. "request" - if the user wants you to be inventive and write an answer (examples: "can you write a grocery list for me with healthy items?", "please create a good schedule for workouts I can do on leg day")
5. "delete_notes" - if the user wants you to delete notes based on the content they define/dictate (examples: "delete notes related to health", "get rid of notes that talk about food", "remove notes that mention technology")
6. "delete_all" - if the user wants to delete ALL their notes without any specific criteria (examples: "delete all my notes", "remove everything", "clear all notes", "get rid of all my notes")
7. "edit_notes" - if the user wants to modify or update existing notes (examples: "edit my notes about food to include peanut allergy", "update appointment notes to mention my car isn't working", "revise travel notes to include the new flight time")

Only return one of these exact strings as the response: "show_all", "search", "create_note", "request", "delete_notes", "delete_all", or "edit_notes". No explanation or other text.`

	maxTokens = 10
)

// Completer issues the constrained classification call.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}

// Classifier maps a free-form utterance to one of the seven intents. The
// model reply is normalized through domain.ParseIntent, so the result is
// always a valid intent regardless of what the model returns.
type Classifier struct {
	completer Completer
}

// New creates an intent classifier.
func New(completer Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify resolves the intent of an utterance. Provider failure comes back
// as a wrapped ErrClassification; callers fall back to the search intent.
func (c *Classifier) Classify(ctx context.Context, utterance string) (domain.Intent, error) {
	reply, err := c.completer.Complete(ctx, systemPrompt, utterance, maxTokens)
	if err != nil {
		return domain.IntentSearch, fmt.Errorf("classify intent: %w: %w", domain.ErrClassification, err)
	}
	return domain.ParseIntent(reply), nil
}
