package chi

import (
	"context"
	"io"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

type mockNotes struct {
	createFn      func(ctx context.Context, owner, title, content string) (domain.Note, error)
	getFn         func(ctx context.Context, owner string, id int64) (domain.Note, error)
	listFn        func(ctx context.Context, owner string, page, limit int) ([]domain.Note, error)
	updateFn      func(ctx context.Context, owner string, id int64, title, content string) (domain.Note, error)
	updateManyFn  func(ctx context.Context, owner string, notes []domain.Note) ([]domain.Note, error)
	deleteFn      func(ctx context.Context, owner string, id int64) error
	deleteManyFn  func(ctx context.Context, ids []int64) (int64, error)
	searchQueryFn func(ctx context.Context, owner, query string) ([]domain.Note, error)
	countFn       func(ctx context.Context, owner string) (int, error)
}

func (m *mockNotes) Create(ctx context.Context, owner, title, content string) (domain.Note, error) {
	if m.createFn != nil {
		return m.createFn(ctx, owner, title, content)
	}
	return domain.Note{ID: 1, Owner: owner, Title: title, Content: content}, nil
}

func (m *mockNotes) Get(ctx context.Context, owner string, id int64) (domain.Note, error) {
	if m.getFn != nil {
		return m.getFn(ctx, owner, id)
	}
	return domain.Note{ID: id, Owner: owner}, nil
}

func (m *mockNotes) List(ctx context.Context, owner string, page, limit int) ([]domain.Note, error) {
	if m.listFn != nil {
		return m.listFn(ctx, owner, page, limit)
	}
	return nil, nil
}

func (m *mockNotes) Update(
	ctx context.Context, owner string, id int64, title, content string,
) (domain.Note, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, owner, id, title, content)
	}
	return domain.Note{ID: id, Owner: owner, Title: title, Content: content}, nil
}

func (m *mockNotes) UpdateMany(
	ctx context.Context, owner string, notes []domain.Note,
) ([]domain.Note, error) {
	if m.updateManyFn != nil {
		return m.updateManyFn(ctx, owner, notes)
	}
	return notes, nil
}

func (m *mockNotes) Delete(ctx context.Context, owner string, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, owner, id)
	}
	return nil
}

func (m *mockNotes) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockNotes) SearchByKeyword(ctx context.Context, owner, query string) ([]domain.Note, error) {
	if m.searchQueryFn != nil {
		return m.searchQueryFn(ctx, owner, query)
	}
	return nil, nil
}

func (m *mockNotes) Count(ctx context.Context, owner string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, owner)
	}
	return 0, nil
}

type mockRouter struct {
	outcome domain.QueryOutcome
	err     error

	query       string
	owner       string
	sensitivity float64
	called      bool
}

func (m *mockRouter) Route(
	_ context.Context, query, owner string, sensitivity float64,
) (domain.QueryOutcome, error) {
	m.called = true
	m.query = query
	m.owner = owner
	m.sensitivity = sensitivity
	if m.err != nil {
		return domain.QueryOutcome{}, m.err
	}
	return m.outcome, nil
}

type mockTranscriber struct {
	text     string
	err      error
	filename string
}

func (m *mockTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	m.filename = filename
	_, _ = io.ReadAll(audio)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

type fixture struct {
	handler     http.Handler
	notes       *mockNotes
	router      *mockRouter
	transcriber *mockTranscriber
	pinger      *mockPinger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notes:       &mockNotes{},
		router:      &mockRouter{},
		transcriber: &mockTranscriber{},
		pinger:      &mockPinger{},
	}
	srv := NewServer(f.notes, f.router, f.transcriber, f.pinger, 0.22, zap.NewNop())
	f.handler = srv.Routes()
	return f
}
