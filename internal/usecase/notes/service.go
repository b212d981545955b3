package notes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkpad/talkpad/internal/domain"
)

const (
	minSensitivity = 0.1
	maxSensitivity = 0.9

	titlePrompt = `You are a helpful assistant that generates short, concise titles for given text.
You do not put quotation around the title.
DO NOT use any markdown syntax in the title.
The title should be plain text only, without any special formatting characters.`

	titleMaxTokens = 50
)

// Service handles note CRUD with mandatory synchronous re-embedding: every
// write path recomputes the vector before persisting, so a stored embedding
// never lags its note's text.
type Service struct {
	repo          Repository
	embedder      Embedder
	titles        TitleWriter
	pageSize      int
	maxPageSize   int
	embedParallel int
	logger        *zap.Logger
}

// New creates a note service.
func New(repo Repository, embedder Embedder, titles TitleWriter, logger *zap.Logger) *Service {
	return &Service{
		repo:          repo,
		embedder:      embedder,
		titles:        titles,
		pageSize:      36,
		maxPageSize:   100,
		embedParallel: 4,
		logger:        logger,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(pageSize, maxPageSize int) *Service {
	if pageSize > 0 {
		s.pageSize = pageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithEmbedParallelism bounds concurrent re-embedding in batch updates.
func (s *Service) WithEmbedParallelism(n int) *Service {
	if n > 0 {
		s.embedParallel = n
	}
	return s
}

// Create persists a new note. A blank title is generated from the content;
// if generation fails or comes back blank, the first words of the content
// serve as the title. The title fallback never fails.
func (s *Service) Create(ctx context.Context, owner, title, content string) (domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Note{}, domain.ErrEmptyContent
	}

	if strings.TrimSpace(title) == "" {
		title = s.generateTitle(ctx, content)
	}

	n := domain.Note{Owner: owner, Title: title, Content: content}

	result, err := s.embedder.Embed(ctx, n.EmbeddingText())
	if err != nil {
		return domain.Note{}, fmt.Errorf("vectorize note: %w", err)
	}
	n.Embedding = result.Embedding

	if _, err := s.repo.Insert(ctx, &n); err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// Update replaces a note's text and re-embeds in the same logical operation.
// A blank title keeps the existing one.
func (s *Service) Update(ctx context.Context, owner string, id int64, title, content string) (domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Note{}, domain.ErrEmptyContent
	}

	n, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("get note: %w", err)
	}

	if strings.TrimSpace(title) != "" {
		n.Title = title
	}
	n.Content = content

	result, err := s.embedder.Embed(ctx, n.EmbeddingText())
	if err != nil {
		return domain.Note{}, fmt.Errorf("vectorize note: %w", err)
	}
	n.Embedding = result.Embedding

	if err := s.repo.Update(ctx, &n); err != nil {
		return domain.Note{}, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

// UpdateMany re-embeds every note concurrently, then persists the batch in
// one pipelined write. Any embedding failure fails the whole batch: a note
// must never be stored with a stale vector.
func (s *Service) UpdateMany(ctx context.Context, owner string, notes []domain.Note) ([]domain.Note, error) {
	if len(notes) == 0 {
		return nil, nil
	}

	updated := make([]domain.Note, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.embedParallel)

	for i := range notes {
		i := i
		g.Go(func() error {
			n := notes[i]
			n.Owner = owner
			if strings.TrimSpace(n.Content) == "" {
				return fmt.Errorf("note %d: %w", n.ID, domain.ErrEmptyContent)
			}
			result, err := s.embedder.Embed(gctx, n.EmbeddingText())
			if err != nil {
				return fmt.Errorf("vectorize note %d: %w", n.ID, err)
			}
			n.Embedding = result.Embedding
			updated[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMulti(ctx, updated); err != nil {
		return nil, fmt.Errorf("update notes: %w", err)
	}
	return updated, nil
}

// Get returns one note.
func (s *Service) Get(ctx context.Context, owner string, id int64) (domain.Note, error) {
	n, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns one page of the owner's notes. Pages are 1-based.
func (s *Service) List(ctx context.Context, owner string, page, limit int) ([]domain.Note, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	result, err := s.repo.ListPage(ctx, owner, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return result, nil
}

// Delete removes one note after an ownership check.
func (s *Service) Delete(ctx context.Context, owner string, id int64) error {
	if _, err := s.repo.Get(ctx, owner, id); err != nil {
		return fmt.Errorf("get note: %w", err)
	}
	if _, err := s.repo.DeleteMulti(ctx, []int64{id}); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// DeleteMany removes notes by id and reports how many existed. This is the
// caller-confirmed step after a delete intent staged its candidates.
func (s *Service) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	deleted, err := s.repo.DeleteMulti(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete notes: %w", err)
	}
	return deleted, nil
}

// SearchByEmbedding runs a similarity search: embed the query, return the
// owner's notes whose vector distance is below sensitivity, closest first.
// Sensitivity is clamped to [0.1, 0.9] before use.
func (s *Service) SearchByEmbedding(
	ctx context.Context, owner, query string, sensitivity float64,
) ([]domain.Note, error) {
	radius := clampSensitivity(sensitivity)

	result, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	found, err := s.repo.SearchVector(ctx, owner, result.Embedding, radius, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return found, nil
}

// SearchByKeyword runs a full-text search. A blank query returns the first
// page instead of an error.
func (s *Service) SearchByKeyword(ctx context.Context, owner, query string) ([]domain.Note, error) {
	if strings.TrimSpace(query) == "" {
		return s.List(ctx, owner, 1, s.pageSize)
	}

	found, err := s.repo.SearchKeyword(ctx, owner, query, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return found, nil
}

// Count returns how many notes the owner has.
func (s *Service) Count(ctx context.Context, owner string) (int, error) {
	n, err := s.repo.Count(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func (s *Service) generateTitle(ctx context.Context, content string) string {
	userMsg := fmt.Sprintf(
		"Generate a short and relevant plain text title (NO MARKDOWN) for the following note: %q", content,
	)
	title, err := s.titles.Complete(ctx, titlePrompt, userMsg, titleMaxTokens)
	if err != nil {
		s.logger.Warn("Title generation failed, falling back to content prefix", zap.Error(err))
		return domain.FallbackTitle(content)
	}
	if strings.TrimSpace(title) == "" {
		return domain.FallbackTitle(content)
	}
	return strings.TrimSpace(title)
}

func clampSensitivity(v float64) float64 {
	if v < minSensitivity {
		return minSensitivity
	}
	if v > maxSensitivity {
		return maxSensitivity
	}
	return v
}
