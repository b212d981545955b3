package metrics

import "github.com/prometheus/client_golang/prometheus"

// AI provider Prometheus metrics. The "kind" label distinguishes call sites:
// embed, classify, trim, relevance, edit, compose, title, content, transcribe.
var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talkpad",
			Name:      "ai_requests_total",
			Help:      "Total number of AI provider requests",
		},
		[]string{"kind", "model", "status"},
	)

	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talkpad",
			Name:      "ai_request_duration_seconds",
			Help:      "AI provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind", "model"},
	)

	AITokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talkpad",
			Name:      "ai_tokens_total",
			Help:      "Total AI provider tokens consumed",
		},
		[]string{"kind", "model"},
	)

	AIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talkpad",
			Name:      "ai_errors_total",
			Help:      "Total AI provider errors",
		},
		[]string{"kind", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talkpad",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var aiMetricsRegistered bool

// RegisterAIMetrics registers Prometheus AI metrics. Must be called once from main.
func RegisterAIMetrics() {
	if aiMetricsRegistered {
		return
	}
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AITokensTotal)
	prometheus.MustRegister(AIErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	aiMetricsRegistered = true
}
