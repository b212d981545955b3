package openai

import (
	"context"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
	"github.com/talkpad/talkpad/internal/metrics"
)

const kindTranscribe = "transcribe"

// noiseWords are filler-only transcripts that speech models emit for silence
// or breathing. A transcript that is nothing but one of these is treated as
// empty input.
var noiseWords = map[string]struct{}{
	"you": {},
	"uh":  {},
	"ah":  {},
	"hmm": {},
	"um":  {},
}

// Transcriber converts audio to text via the OpenAI-compatible audio API.
type Transcriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// TranscriberConfig holds the speech-to-text provider settings.
type TranscriberConfig struct {
	Config
	Model  string
	Logger *zap.Logger
}

// NewTranscriber creates an OpenAI-compatible speech-to-text provider.
func NewTranscriber(cfg *TranscriberConfig) *Transcriber {
	return &Transcriber{
		client: newClient(&cfg.Config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Transcribe implements domain.Transcriber. Returns "" when the recording
// carries no speech.
func (t *Transcriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
	}

	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(kindTranscribe, t.model, "error").Inc()
		metrics.AIErrorsTotal.WithLabelValues(kindTranscribe, t.model, "api_error").Inc()
		return "", parseAPIError(kindTranscribe, err, domain.ErrTranscriptionProvider)
	}

	metrics.AIRequestsTotal.WithLabelValues(kindTranscribe, t.model, "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(kindTranscribe, t.model).Observe(duration.Seconds())

	return filterNoise(resp.Text), nil
}

// filterNoise drops transcripts that are a single filler word.
func filterNoise(text string) string {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(strings.Trim(trimmed, ".,!? "))
	if _, ok := noiseWords[normalized]; ok {
		return ""
	}
	return trimmed
}
