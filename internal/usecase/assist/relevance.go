package assist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

const relevanceMaxTokens = 10

// Relevance judges whether a note matters to an instruction. The policy is
// fail-open: any provider failure or out-of-grammar reply keeps the note in
// the candidate set. Silently dropping a note from an edit or delete set is
// worse than showing the user one extra candidate.
type Relevance struct {
	completer Completer
	logger    *zap.Logger
}

// NewRelevance creates a relevance filter.
func NewRelevance(completer Completer, logger *zap.Logger) *Relevance {
	return &Relevance{completer: completer, logger: logger}
}

// IsRelevant returns the binary judgment for one note.
func (r *Relevance) IsRelevant(ctx context.Context, instruction string, note domain.Note) bool {
	systemPrompt := fmt.Sprintf(`You are an AI assistant determining if a note is relevant to a user's edit request.
The user has requested: %q

Analyze the following note and determine if it's relevant to this edit request.
Only respond with "relevant" or "not relevant" - no other text.`, instruction)

	userMsg := fmt.Sprintf("Note title: %q\nNote content: %q", note.Title, note.Content)

	reply, err := r.completer.Complete(ctx, systemPrompt, userMsg, relevanceMaxTokens)
	if err != nil {
		r.logger.Warn("Relevance judgment failed, keeping note",
			zap.Int64("note_id", note.ID), zap.Error(err))
		return true
	}

	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "relevant":
		return true
	case "not relevant":
		return false
	default:
		r.logger.Warn("Relevance reply out of grammar, keeping note",
			zap.Int64("note_id", note.ID), zap.String("reply", reply))
		return true
	}
}
