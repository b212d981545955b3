package router

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

type mockNotes struct {
	createFn func(ctx context.Context, owner, title, content string) (domain.Note, error)
	listFn   func(ctx context.Context, owner string, page, limit int) ([]domain.Note, error)
	searchFn func(ctx context.Context, owner, query string, sensitivity float64) ([]domain.Note, error)
}

func (m *mockNotes) Create(ctx context.Context, owner, title, content string) (domain.Note, error) {
	if m.createFn != nil {
		return m.createFn(ctx, owner, title, content)
	}
	return domain.Note{ID: 1, Owner: owner, Title: title, Content: content}, nil
}

func (m *mockNotes) List(ctx context.Context, owner string, page, limit int) ([]domain.Note, error) {
	if m.listFn != nil {
		return m.listFn(ctx, owner, page, limit)
	}
	return nil, nil
}

func (m *mockNotes) SearchByEmbedding(
	ctx context.Context, owner, query string, sensitivity float64,
) ([]domain.Note, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, owner, query, sensitivity)
	}
	return nil, nil
}

type mockClassifier struct {
	intent domain.Intent
	err    error
	called bool
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (domain.Intent, error) {
	m.called = true
	if m.err != nil {
		return domain.IntentSearch, m.err
	}
	return m.intent, nil
}

type mockTrimmer struct {
	reply  string
	err    error
	called bool
}

func (m *mockTrimmer) Trim(_ context.Context, _ string) (string, error) {
	m.called = true
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockEditor struct {
	originals []domain.Note
	edited    []domain.Note
	called    bool
}

func (m *mockEditor) EditNotes(
	_ context.Context, _ string, _ []domain.Note,
) ([]domain.Note, []domain.Note) {
	m.called = true
	return m.originals, m.edited
}

type mockComposer struct {
	message string
	last    []domain.Note
}

func (m *mockComposer) Compose(
	_ context.Context, _ string, _ domain.Intent, notes []domain.Note,
) string {
	m.last = notes
	return m.message
}

type mockWriter struct {
	content string
	err     error
}

func (m *mockWriter) GenerateContent(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

type fixture struct {
	router     *Router
	notes      *mockNotes
	classifier *mockClassifier
	trimmer    *mockTrimmer
	editor     *mockEditor
	composer   *mockComposer
	writer     *mockWriter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notes:      &mockNotes{},
		classifier: &mockClassifier{intent: domain.IntentSearch},
		trimmer:    &mockTrimmer{reply: "payload"},
		editor:     &mockEditor{},
		composer:   &mockComposer{message: "done"},
		writer:     &mockWriter{content: "generated content"},
	}
	f.router = New(
		f.notes, f.classifier, f.trimmer, f.editor, f.composer, f.writer, zap.NewNop(),
	)
	return f
}
