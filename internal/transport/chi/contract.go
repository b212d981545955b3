package chi

import (
	"context"
	"io"

	"github.com/talkpad/talkpad/internal/domain"
)

// NoteService is the note CRUD and search surface the HTTP layer exposes.
type NoteService interface {
	Create(ctx context.Context, owner, title, content string) (domain.Note, error)
	Get(ctx context.Context, owner string, id int64) (domain.Note, error)
	List(ctx context.Context, owner string, page, limit int) ([]domain.Note, error)
	Update(ctx context.Context, owner string, id int64, title, content string) (domain.Note, error)
	UpdateMany(ctx context.Context, owner string, notes []domain.Note) ([]domain.Note, error)
	Delete(ctx context.Context, owner string, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	SearchByKeyword(ctx context.Context, owner, query string) ([]domain.Note, error)
	Count(ctx context.Context, owner string) (int, error)
}

// QueryRouter executes one semantic utterance end to end.
type QueryRouter interface {
	Route(ctx context.Context, query, owner string, sensitivity float64) (domain.QueryOutcome, error)
}

// Transcriber converts an uploaded recording to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Pinger reports store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
