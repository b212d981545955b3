package notes

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	mu sync.Mutex

	insertFn        func(ctx context.Context, n *domain.Note) (int64, error)
	getFn           func(ctx context.Context, owner string, id int64) (domain.Note, error)
	listPageFn      func(ctx context.Context, owner string, offset, limit int) ([]domain.Note, error)
	searchVectorFn  func(ctx context.Context, owner string, vector []float32, radius float64, limit int) ([]domain.Note, error)
	searchKeywordFn func(ctx context.Context, owner, query string, limit int) ([]domain.Note, error)
	updateFn        func(ctx context.Context, n *domain.Note) error
	updateMultiFn   func(ctx context.Context, notes []domain.Note) error
	deleteMultiFn   func(ctx context.Context, ids []int64) (int64, error)
	countFn         func(ctx context.Context, owner string) (int, error)
}

func (m *mockRepo) Insert(ctx context.Context, n *domain.Note) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, n)
	}
	n.ID = 1
	return 1, nil
}

func (m *mockRepo) Get(ctx context.Context, owner string, id int64) (domain.Note, error) {
	if m.getFn != nil {
		return m.getFn(ctx, owner, id)
	}
	return domain.Note{ID: id, Owner: owner}, nil
}

func (m *mockRepo) ListPage(ctx context.Context, owner string, offset, limit int) ([]domain.Note, error) {
	if m.listPageFn != nil {
		return m.listPageFn(ctx, owner, offset, limit)
	}
	return nil, nil
}

func (m *mockRepo) SearchVector(
	ctx context.Context, owner string, vector []float32, radius float64, limit int,
) ([]domain.Note, error) {
	if m.searchVectorFn != nil {
		return m.searchVectorFn(ctx, owner, vector, radius, limit)
	}
	return nil, nil
}

func (m *mockRepo) SearchKeyword(ctx context.Context, owner, query string, limit int) ([]domain.Note, error) {
	if m.searchKeywordFn != nil {
		return m.searchKeywordFn(ctx, owner, query, limit)
	}
	return nil, nil
}

func (m *mockRepo) Update(ctx context.Context, n *domain.Note) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, n)
	}
	return nil
}

func (m *mockRepo) UpdateMulti(ctx context.Context, notes []domain.Note) error {
	if m.updateMultiFn != nil {
		return m.updateMultiFn(ctx, notes)
	}
	return nil
}

func (m *mockRepo) DeleteMulti(ctx context.Context, ids []int64) (int64, error) {
	if m.deleteMultiFn != nil {
		return m.deleteMultiFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockRepo) Count(ctx context.Context, owner string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, owner)
	}
	return 0, nil
}

// mockEmbedder records the texts it embedded.
type mockEmbedder struct {
	mu    sync.Mutex
	vec   []float32
	err   error
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 1}, nil
}

// mockTitles is the title generation completer.
type mockTitles struct {
	reply  string
	err    error
	called bool
}

func (m *mockTitles) Complete(_ context.Context, _, _ string, _ int) (string, error) {
	m.called = true
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockEmbedder, *mockTitles) {
	t.Helper()
	repo := &mockRepo{}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	titles := &mockTitles{reply: "Generated Title"}
	svc := New(repo, emb, titles, zap.NewNop())
	return svc, repo, emb, titles
}
