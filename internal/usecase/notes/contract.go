package notes

import (
	"context"

	"github.com/talkpad/talkpad/internal/domain"
)

// Repository defines the storage contract for notes.
type Repository interface {
	Insert(ctx context.Context, n *domain.Note) (int64, error)
	Get(ctx context.Context, owner string, id int64) (domain.Note, error)
	ListPage(ctx context.Context, owner string, offset, limit int) ([]domain.Note, error)
	SearchVector(ctx context.Context, owner string, vector []float32, radius float64, limit int) ([]domain.Note, error)
	SearchKeyword(ctx context.Context, owner, query string, limit int) ([]domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	UpdateMulti(ctx context.Context, notes []domain.Note) error
	DeleteMulti(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context, owner string) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// TitleWriter generates a title for note content.
type TitleWriter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}
