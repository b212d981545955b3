package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

// mockKV implements the store consumer interface for tests.
type mockKV struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

// mockEmbedder is the inner embedder for tests.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) (*CachedEmbedder, *mockKV) {
	t.Helper()
	ms := &mockKV{}
	ce := New(inner, ms, "talkpad:", nil, zap.NewNop())
	return ce, ms
}
