package router

import (
	"context"

	"github.com/talkpad/talkpad/internal/domain"
)

// NoteService is the note store surface the router drives.
type NoteService interface {
	Create(ctx context.Context, owner, title, content string) (domain.Note, error)
	List(ctx context.Context, owner string, page, limit int) ([]domain.Note, error)
	SearchByEmbedding(ctx context.Context, owner, query string, sensitivity float64) ([]domain.Note, error)
}

// Classifier resolves an utterance to an intent.
type Classifier interface {
	Classify(ctx context.Context, utterance string) (domain.Intent, error)
}

// Trimmer strips command phrasing from an utterance.
type Trimmer interface {
	Trim(ctx context.Context, utterance string) (string, error)
}

// Editor relevance-filters and rewrites candidate notes.
type Editor interface {
	EditNotes(ctx context.Context, instruction string, notes []domain.Note) (originals, edited []domain.Note)
}

// Composer writes the confirmation message. Never fails.
type Composer interface {
	Compose(ctx context.Context, query string, intent domain.Intent, notes []domain.Note) string
}

// ContentWriter drafts note content from an utterance.
type ContentWriter interface {
	GenerateContent(ctx context.Context, query string) (string, error)
}
