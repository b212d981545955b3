package assist

import (
	"context"
	"sync"
)

// mockCompleter replies with a fixed string, or per-message replies keyed by
// a substring of the user message.
type mockCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	replyFn func(systemPrompt, userMessage string) (string, error)
	calls   int
}

func (m *mockCompleter) Complete(_ context.Context, systemPrompt, userMessage string, _ int) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.replyFn != nil {
		return m.replyFn(systemPrompt, userMessage)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompleter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
