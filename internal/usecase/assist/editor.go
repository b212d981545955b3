package assist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkpad/talkpad/internal/domain"
)

const editMaxTokens = 200

// RelevanceFilter is the per-note gate applied before any edit.
type RelevanceFilter interface {
	IsRelevant(ctx context.Context, instruction string, note domain.Note) bool
}

// Editor rewrites note content per an instruction. Candidates pass through
// the relevance gate first; survivors are rewritten independently and a
// failed rewrite keeps the original content, so a batch always returns as
// many notes as survived the gate.
type Editor struct {
	completer Completer
	relevance RelevanceFilter
	parallel  int
	logger    *zap.Logger
}

// NewEditor creates a note editor.
func NewEditor(completer Completer, relevance RelevanceFilter, logger *zap.Logger) *Editor {
	return &Editor{
		completer: completer,
		relevance: relevance,
		parallel:  4,
		logger:    logger,
	}
}

// WithParallelism bounds concurrent per-note calls.
func (e *Editor) WithParallelism(n int) *Editor {
	if n > 0 {
		e.parallel = n
	}
	return e
}

// EditNotes returns the relevance-filtered originals and their rewritten
// counterparts, paired by note id in input order. An empty filtered set
// returns empty slices without issuing any edit call.
func (e *Editor) EditNotes(
	ctx context.Context, instruction string, notes []domain.Note,
) (originals, edited []domain.Note) {
	if len(notes) == 0 {
		return nil, nil
	}

	originals = e.filterRelevant(ctx, instruction, notes)
	if len(originals) == 0 {
		return nil, nil
	}

	edited = make([]domain.Note, len(originals))
	copy(edited, originals)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)

	for i := range originals {
		i := i
		g.Go(func() error {
			content, err := e.rewrite(gctx, instruction, originals[i].Content)
			if err != nil {
				e.logger.Warn("Note rewrite failed, keeping original content",
					zap.Int64("note_id", originals[i].ID), zap.Error(err))
				return nil
			}
			if content != "" && content != originals[i].Content {
				edited[i].Content = content
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	return originals, edited
}

// filterRelevant applies the relevance gate concurrently, preserving input order.
func (e *Editor) filterRelevant(
	ctx context.Context, instruction string, notes []domain.Note,
) []domain.Note {
	keep := make([]bool, len(notes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i := range notes {
		i := i
		g.Go(func() error {
			keep[i] = e.relevance.IsRelevant(gctx, instruction, notes[i])
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	filtered := make([]domain.Note, 0, len(notes))
	for i, n := range notes {
		if keep[i] {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

func (e *Editor) rewrite(ctx context.Context, instruction, content string) (string, error) {
	systemPrompt := fmt.Sprintf(`You are an AI assistant helping to edit notes in a note-taking app.
The user has requested: %q

I'll provide you with the content of each note, and you should modify it according to the user's request.
Make targeted changes that align with the user's intent, while preserving the overall structure and purpose of each note.
Only make changes that are relevant to the user's request - don't modify unrelated content.

IMPORTANT:
- DO NOT use any markdown syntax in your response
- Format your response as plain text only
- Do not use #, *, _, -, or backticks for formatting
- For emphasis, use ALL CAPS instead of bold or italic markdown
- For sections, use plain text headings followed by line breaks, not markdown headings
- For lists, use simple numbers or bullet characters without markdown formatting

Preserve the basic formatting in your response:
- Maintain line breaks between paragraphs
- For lists, ensure each item is on its own line with appropriate bullet points or numbers
- Preserve any existing indentation or special formatting`, instruction)

	userMsg := fmt.Sprintf(
		"Original note content: %q\n\nPlease edit this note according to the user's request: %q",
		content, instruction,
	)

	reply, err := e.completer.Complete(ctx, systemPrompt, userMsg, editMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
