package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
	"github.com/talkpad/talkpad/internal/logger"
)

const maxBatchSize = 100

type errorCode string

const (
	codeBadRequest            errorCode = "bad_request"
	codeValidationFailed      errorCode = "validation_failed"
	codeUnauthorized          errorCode = "unauthorized"
	codeNoteNotFound          errorCode = "note_not_found"
	codeEmbeddingProvider     errorCode = "embedding_provider_error"
	codeCompletionProvider    errorCode = "completion_provider_error"
	codeTranscriptionProvider errorCode = "transcription_provider_error"
	codeInternalError         errorCode = "internal_error"
)

// internalErrorMessage is the only text a store or unknown failure leaks.
const internalErrorMessage = "Sorry, something went wrong. Please try again."

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the note API over HTTP.
type Server struct {
	notes              NoteService
	router             QueryRouter
	transcriber        Transcriber
	pinger             Pinger
	defaultSensitivity float64
	logger             *zap.Logger
	errorHandlers      []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	notes NoteService,
	router QueryRouter,
	transcriber Transcriber,
	pinger Pinger,
	defaultSensitivity float64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		notes:              notes,
		router:             router,
		transcriber:        transcriber,
		pinger:             pinger,
		defaultSensitivity: defaultSensitivity,
		logger:             logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNoteNotFound, http.StatusNotFound, codeNoteNotFound),
		sentinelHandler(domain.ErrEmptyContent, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrCompletionProvider, http.StatusBadGateway, codeCompletionProvider),
		sentinelHandler(domain.ErrTranscriptionProvider, http.StatusBadGateway, codeTranscriptionProvider),
	}
	return s
}

// Routes builds the route tree. Middleware (recovery, request id, auth,
// metrics) is assembled by the caller around this tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.handleCreateNote)
			r.Get("/", s.handleListNotes)
			r.Put("/", s.handleUpdateNotes)
			r.Post("/delete", s.handleDeleteNotes)
			r.Get("/search", s.handleKeywordSearch)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetNote)
				r.Put("/", s.handleUpdateNote)
				r.Delete("/", s.handleDeleteNote)
			})
		})

		r.Post("/query", s.handleQuery)
		r.Post("/transcribe", s.handleTranscribe)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoteNotFound,
		domain.ErrEmptyContent,
		domain.ErrEmbeddingProvider,
		domain.ErrCompletionProvider,
		domain.ErrTranscriptionProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return internalErrorMessage
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError prefers the request-scoped logger so the entry carries
// the request id set by the wide-event middleware.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, internalErrorMessage)
}
