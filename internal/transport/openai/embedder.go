package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
	"github.com/talkpad/talkpad/internal/metrics"
)

const kindEmbed = "embed"

// Embedder vectorizes note text via the OpenAI-compatible embeddings API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	Config
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *EmbedderConfig) *Embedder {
	return &Embedder{
		client:     newClient(&cfg.Config),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		logger:     cfg.Logger,
	}
}

// Embed implements domain.Embedder. Returns the vector and usage with transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(kindEmbed, string(e.model), "error").Inc()
		metrics.AIErrorsTotal.WithLabelValues(kindEmbed, string(e.model), "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(kindEmbed, err, domain.ErrEmbeddingProvider)
	}

	if len(resp.Data) == 0 {
		metrics.AIRequestsTotal.WithLabelValues(kindEmbed, string(e.model), "error").Inc()
		metrics.AIErrorsTotal.WithLabelValues(kindEmbed, string(e.model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProvider)
	}

	metrics.AIRequestsTotal.WithLabelValues(kindEmbed, string(e.model), "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(kindEmbed, string(e.model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	if totalTokens > 0 {
		metrics.AITokensTotal.WithLabelValues(kindEmbed, string(e.model)).Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:   resp.Data[0].Embedding,
		TotalTokens: totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
