package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
	"github.com/talkpad/talkpad/internal/metrics"
)

// Completer issues constrained chat completions against the OpenAI-compatible
// chat API. Each call site labels its traffic via Kind so the metrics separate
// classification from editing from message composition.
type Completer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// CompleterConfig holds the chat provider settings.
type CompleterConfig struct {
	Config
	Model  string
	Logger *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	return &Completer{
		client: newClient(&cfg.Config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Complete implements domain.Completer with the generic "complete" kind.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	return c.complete(ctx, "complete", systemPrompt, userMessage, maxTokens)
}

// Kind returns a view of this completer whose metrics carry the given kind
// label (classify, trim, relevance, edit, compose, title, content).
func (c *Completer) Kind(kind string) domain.Completer {
	return &kindCompleter{inner: c, kind: kind}
}

type kindCompleter struct {
	inner *Completer
	kind  string
}

func (k *kindCompleter) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	return k.inner.complete(ctx, k.kind, systemPrompt, userMessage, maxTokens)
}

func (c *Completer) complete(
	ctx context.Context, kind, systemPrompt, userMessage string, maxTokens int,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(kind, c.model, "error").Inc()
		metrics.AIErrorsTotal.WithLabelValues(kind, c.model, "api_error").Inc()
		return "", parseAPIError(kind, err, domain.ErrCompletionProvider)
	}

	if len(resp.Choices) == 0 {
		metrics.AIRequestsTotal.WithLabelValues(kind, c.model, "error").Inc()
		metrics.AIErrorsTotal.WithLabelValues(kind, c.model, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProvider)
	}

	metrics.AIRequestsTotal.WithLabelValues(kind, c.model, "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(kind, c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.AITokensTotal.WithLabelValues(kind, c.model).Add(float64(resp.Usage.TotalTokens))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
