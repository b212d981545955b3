package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

func transcriptionServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"text": text})
	}))
}

func TestTranscriber_Transcribe(t *testing.T) {
	server := transcriptionServer(t, "add milk to my grocery list")
	defer server.Close()

	tr := NewTranscriber(&TranscriberConfig{
		Config: Config{APIKey: "test-key", BaseURL: server.URL},
		Model:  "whisper-1",
		Logger: zap.NewNop(),
	})

	text, err := tr.Transcribe(context.Background(), "voice.webm", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "add milk to my grocery list" {
		t.Errorf("unexpected transcript: %q", text)
	}
}

func TestTranscriber_NoiseFiltered(t *testing.T) {
	for _, noise := range []string{"you", "Uh.", " hmm ", "UM", "ah..."} {
		server := transcriptionServer(t, noise)

		tr := NewTranscriber(&TranscriberConfig{
			Config: Config{APIKey: "test-key", BaseURL: server.URL},
			Model:  "whisper-1",
			Logger: zap.NewNop(),
		})

		text, err := tr.Transcribe(context.Background(), "voice.webm", strings.NewReader("x"))
		server.Close()
		if err != nil {
			t.Fatalf("Transcribe failed for %q: %v", noise, err)
		}
		if text != "" {
			t.Errorf("expected %q to be filtered, got %q", noise, text)
		}
	}
}

func TestTranscriber_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "boom", "type": "server_error"},
		})
	}))
	defer server.Close()

	tr := NewTranscriber(&TranscriberConfig{
		Config: Config{APIKey: "test-key", BaseURL: server.URL},
		Model:  "whisper-1",
		Logger: zap.NewNop(),
	})

	_, err := tr.Transcribe(context.Background(), "voice.webm", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrTranscriptionProvider) {
		t.Fatalf("expected ErrTranscriptionProvider, got %v", err)
	}
}

func TestFilterNoise_KeepsRealSpeech(t *testing.T) {
	if got := filterNoise("  buy more coffee  "); got != "buy more coffee" {
		t.Errorf("expected trimmed transcript, got %q", got)
	}
	// "you" inside a sentence must survive, only a bare filler is dropped.
	if got := filterNoise("remind you about rent"); got != "remind you about rent" {
		t.Errorf("expected sentence kept, got %q", got)
	}
}
