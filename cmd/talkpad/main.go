package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/config"
	dbRedis "github.com/talkpad/talkpad/internal/db/redis"
	logpkg "github.com/talkpad/talkpad/internal/logger"
	"github.com/talkpad/talkpad/internal/metrics"
	"github.com/talkpad/talkpad/internal/repository/embcache"
	noterepo "github.com/talkpad/talkpad/internal/repository/note"
	chiTransport "github.com/talkpad/talkpad/internal/transport/chi"
	openaiProv "github.com/talkpad/talkpad/internal/transport/openai"
	assistuc "github.com/talkpad/talkpad/internal/usecase/assist"
	intentuc "github.com/talkpad/talkpad/internal/usecase/intent"
	notesuc "github.com/talkpad/talkpad/internal/usecase/notes"
	routeruc "github.com/talkpad/talkpad/internal/usecase/router"
	"github.com/talkpad/talkpad/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting talkpad API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register AI metrics explicitly (no init())
	metrics.RegisterAIMetrics()

	// Note repository + FT index
	notes := noterepo.New(store, cfg.Storage.KeyPrefix)
	if err := notes.EnsureIndex(ctx, noterepo.IndexOptions{
		Dimensions:  cfg.AI.Dimensions,
		M:           cfg.Search.HNSWM,
		EFConstruct: cfg.Search.HNSWEFConstruct,
	}); err != nil {
		logger.Fatal("Failed to ensure note index", zap.Error(err))
	}

	// Embedder chain: OpenAI -> cache decorator
	providerCfg := openaiProv.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Timeout: time.Duration(cfg.AI.RequestTimeout) * time.Second,
	}
	baseEmbedder := openaiProv.NewEmbedder(&openaiProv.EmbedderConfig{
		Config:     providerCfg,
		Model:      cfg.AI.EmbeddingModel,
		Dimensions: cfg.AI.Dimensions,
		Logger:     logger,
	})
	embedder := embcache.New(baseEmbedder, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.AI.EmbeddingModel),
		zap.Int("dimensions", cfg.AI.Dimensions),
	)

	// One chat provider, one labelled view per call site
	completer := openaiProv.NewCompleter(&openaiProv.CompleterConfig{
		Config: providerCfg,
		Model:  cfg.AI.ChatModel,
		Logger: logger,
	})
	transcriber := openaiProv.NewTranscriber(&openaiProv.TranscriberConfig{
		Config: providerCfg,
		Model:  cfg.AI.TranscribeModel,
		Logger: logger,
	})

	// Use case services
	noteSvc := notesuc.New(notes, embedder, completer.Kind("title"), logger).
		WithPagination(cfg.Search.PageSize, cfg.Search.MaxPageSize).
		WithEmbedParallelism(cfg.AI.EditConcurrency)

	classifier := intentuc.New(completer.Kind("classify"))
	trimmer := assistuc.NewTrimmer(completer.Kind("trim"))
	relevance := assistuc.NewRelevance(completer.Kind("relevance"), logger)
	editor := assistuc.NewEditor(completer.Kind("edit"), relevance, logger).
		WithParallelism(cfg.AI.EditConcurrency)
	composer := assistuc.NewComposer(completer.Kind("compose"), logger)
	writer := assistuc.NewContentWriter(completer.Kind("content"))

	queryRouter := routeruc.New(noteSvc, classifier, trimmer, editor, composer, writer, logger)

	// HTTP server
	server := chiTransport.NewServer(
		noteSvc, queryRouter, transcriber, store, cfg.Search.DefaultSensitivity, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
