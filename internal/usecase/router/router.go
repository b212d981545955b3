package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
	"github.com/talkpad/talkpad/internal/usecase/assist"
)

// emptyQueryMessage is the fixed reply for an utterance with no content.
// The classifier is never consulted for these.
const emptyQueryMessage = "I didn't hear anything, so I returned all your notes."

// Router sequences classification, trimming, search, editing and message
// composition into one pass per utterance. Each branch is a single pass with
// no retries; judgment-call failures degrade (default intent, fail-open
// relevance, leave-unedited) while embedding and store failures surface.
type Router struct {
	notes      NoteService
	classifier Classifier
	trimmer    Trimmer
	editor     Editor
	composer   Composer
	writer     ContentWriter
	logger     *zap.Logger
}

// New creates a query router.
func New(
	notes NoteService,
	classifier Classifier,
	trimmer Trimmer,
	editor Editor,
	composer Composer,
	writer ContentWriter,
	logger *zap.Logger,
) *Router {
	return &Router{
		notes:      notes,
		classifier: classifier,
		trimmer:    trimmer,
		editor:     editor,
		composer:   composer,
		writer:     writer,
		logger:     logger,
	}
}

// Route executes one utterance end to end. Deletion intents only stage their
// candidates; the actual delete is a separate caller-confirmed operation.
func (r *Router) Route(
	ctx context.Context, query, owner string, sensitivity float64,
) (domain.QueryOutcome, error) {
	if strings.TrimSpace(query) == "" {
		notes, err := r.notes.List(ctx, owner, 1, 0)
		if err != nil {
			return domain.QueryOutcome{}, fmt.Errorf("list notes: %w", err)
		}
		return domain.QueryOutcome{
			Intent:  domain.IntentShowAll,
			Notes:   notes,
			Message: emptyQueryMessage,
		}, nil
	}

	intent := r.classify(ctx, query)

	switch intent {
	case domain.IntentShowAll, domain.IntentDeleteAll:
		return r.routePage(ctx, query, owner, intent)
	case domain.IntentCreateNote, domain.IntentRequest:
		return r.routeCreate(ctx, query, owner, intent)
	default: // search, delete_notes, edit_notes
		return r.routeSimilarity(ctx, query, owner, intent, sensitivity)
	}
}

// classify resolves the intent, falling back to search on provider failure.
func (r *Router) classify(ctx context.Context, query string) domain.Intent {
	intent, err := r.classifier.Classify(ctx, query)
	if err != nil {
		r.logger.Warn("Intent classification failed, defaulting to search", zap.Error(err))
		return domain.IntentSearch
	}
	return intent
}

// routePage serves show_all and delete_all: one bounded page of the owner's
// notes. For delete_all the page is the staged candidate set.
func (r *Router) routePage(
	ctx context.Context, query, owner string, intent domain.Intent,
) (domain.QueryOutcome, error) {
	notes, err := r.notes.List(ctx, owner, 1, 0)
	if err != nil {
		return domain.QueryOutcome{}, fmt.Errorf("list notes: %w", err)
	}
	if intent.Destructive() {
		r.logger.Info("Staged deletion candidates", zap.Int("count", len(notes)))
	}
	return domain.QueryOutcome{
		Intent:  intent,
		Notes:   notes,
		Message: r.composer.Compose(ctx, query, intent, notes),
	}, nil
}

// routeCreate serves create_note and request: draft content, insert, confirm.
func (r *Router) routeCreate(
	ctx context.Context, query, owner string, intent domain.Intent,
) (domain.QueryOutcome, error) {
	content, err := r.writer.GenerateContent(ctx, query)
	if err != nil {
		return domain.QueryOutcome{}, err
	}

	note, err := r.notes.Create(ctx, owner, "", content)
	if err != nil {
		return domain.QueryOutcome{}, fmt.Errorf("create note: %w", err)
	}

	notes := []domain.Note{note}
	return domain.QueryOutcome{
		Intent:  intent,
		Notes:   notes,
		Message: r.composer.Compose(ctx, query, intent, notes),
	}, nil
}

// routeSimilarity serves search, delete_notes and edit_notes: similarity
// search over the (possibly trimmed) payload, then branch-specific handling.
func (r *Router) routeSimilarity(
	ctx context.Context, query, owner string, intent domain.Intent, sensitivity float64,
) (domain.QueryOutcome, error) {
	searchQuery := query
	if intent == domain.IntentDeleteNotes || intent == domain.IntentEditNotes {
		searchQuery = r.trimPayload(ctx, query)
		if searchQuery == assist.NoContent {
			return domain.QueryOutcome{
				Intent:  intent,
				Notes:   []domain.Note{},
				Message: r.composer.Compose(ctx, query, intent, nil),
			}, nil
		}
	}

	notes, err := r.notes.SearchByEmbedding(ctx, owner, searchQuery, sensitivity)
	if err != nil {
		return domain.QueryOutcome{}, fmt.Errorf("similarity search: %w", err)
	}

	if len(notes) == 0 {
		return domain.QueryOutcome{
			Intent:  intent,
			Notes:   []domain.Note{},
			Message: r.composer.Compose(ctx, query, intent, nil),
		}, nil
	}

	outcome := domain.QueryOutcome{Intent: intent, Notes: notes}

	if intent.Destructive() {
		r.logger.Info("Staged deletion candidates", zap.Int("count", len(notes)))
	}

	if intent == domain.IntentEditNotes {
		originals, edited := r.editor.EditNotes(ctx, query, notes)
		outcome.Notes = originals
		outcome.EditedNotes = edited
	}

	outcome.Message = r.composer.Compose(ctx, query, intent, outcome.Notes)
	return outcome, nil
}

// trimPayload isolates the search payload, falling back to the verbatim
// utterance when the trimmer itself fails.
func (r *Router) trimPayload(ctx context.Context, query string) string {
	trimmed, err := r.trimmer.Trim(ctx, query)
	if err != nil {
		r.logger.Warn("Command trim failed, searching on the full utterance", zap.Error(err))
		return query
	}
	return trimmed
}
