package assist

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

func TestIsRelevant_Relevant(t *testing.T) {
	r := NewRelevance(&mockCompleter{reply: "relevant"}, zap.NewNop())
	if !r.IsRelevant(context.Background(), "add allergy info", domain.Note{ID: 1, Title: "Food"}) {
		t.Error("expected relevant")
	}
}

func TestIsRelevant_NotRelevant(t *testing.T) {
	r := NewRelevance(&mockCompleter{reply: "Not Relevant"}, zap.NewNop())
	if r.IsRelevant(context.Background(), "add allergy info", domain.Note{ID: 1, Title: "Cars"}) {
		t.Error("expected not relevant")
	}
}

func TestIsRelevant_FailOpenOnError(t *testing.T) {
	r := NewRelevance(&mockCompleter{err: errors.New("timeout")}, zap.NewNop())
	if !r.IsRelevant(context.Background(), "anything", domain.Note{ID: 1}) {
		t.Error("a failed judgment must keep the note")
	}
}

func TestIsRelevant_FailOpenOnProse(t *testing.T) {
	r := NewRelevance(&mockCompleter{reply: "I believe this note might be related"}, zap.NewNop())
	if !r.IsRelevant(context.Background(), "anything", domain.Note{ID: 1}) {
		t.Error("an out-of-grammar reply must keep the note")
	}
}
