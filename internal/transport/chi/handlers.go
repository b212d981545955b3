package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/talkpad/talkpad/internal/domain"
)

// maxUploadBytes caps audio uploads. Whisper rejects files over 25 MB anyway.
const maxUploadBytes = 25 << 20

type noteRequest struct {
	Owner   string `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteBatchItem struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type batchUpdateRequest struct {
	Owner string          `json:"user_id"`
	Notes []noteBatchItem `json:"notes"`
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type queryRequest struct {
	Owner       string   `json:"user_id"`
	Query       string   `json:"query"`
	Sensitivity *float64 `json:"sensitivity"`
}

type notesResponse struct {
	Notes []domain.Note `json:"notes"`
	Total int           `json:"total"`
}

// handleCreateNote handles POST /api/v1/notes.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	note, err := s.notes.Create(r.Context(), req.Owner, req.Title, req.Content)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// handleListNotes handles GET /api/v1/notes.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner is required")
		return
	}

	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	notes, err := s.notes.List(r.Context(), owner, page, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	total, err := s.notes.Count(r.Context(), owner)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Notes: notes, Total: total})
}

// handleGetNote handles GET /api/v1/notes/{id}.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid note id")
		return
	}
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner is required")
		return
	}

	note, err := s.notes.Get(r.Context(), owner, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// handleUpdateNote handles PUT /api/v1/notes/{id}.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid note id")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	note, err := s.notes.Update(r.Context(), req.Owner, id, req.Title, req.Content)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// handleUpdateNotes handles PUT /api/v1/notes (batch update with re-embedding).
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req batchUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}
	if len(req.Notes) == 0 || len(req.Notes) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("notes count must be between 1 and %d", maxBatchSize))
		return
	}

	notes := make([]domain.Note, len(req.Notes))
	for i, item := range req.Notes {
		notes[i] = domain.Note{ID: item.ID, Title: item.Title, Content: item.Content}
	}

	updated, err := s.notes.UpdateMany(r.Context(), req.Owner, notes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Notes: updated, Total: len(updated)})
}

// handleDeleteNote handles DELETE /api/v1/notes/{id}.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid note id")
		return
	}
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner is required")
		return
	}

	if err := s.notes.Delete(r.Context(), owner, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteNotes handles POST /api/v1/notes/delete. This is the confirmed
// step after a delete intent staged its candidates.
func (s *Server) handleDeleteNotes(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) == 0 || len(req.IDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("ids count must be between 1 and %d", maxBatchSize))
		return
	}

	deleted, err := s.notes.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// handleKeywordSearch handles GET /api/v1/notes/search. A blank query returns
// the first page.
func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "owner is required")
		return
	}

	notes, err := s.notes.SearchByKeyword(r.Context(), owner, r.URL.Query().Get("query"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notesResponse{Notes: notes, Total: len(notes)})
}

// handleQuery handles POST /api/v1/query: the semantic router entrypoint.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	sensitivity := s.defaultSensitivity
	if req.Sensitivity != nil {
		sensitivity = *req.Sensitivity
	}

	outcome, err := s.router.Route(r.Context(), req.Query, req.Owner, sensitivity)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// handleTranscribe handles POST /api/v1/transcribe (multipart, field "audio").
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "audio file is required")
		return
	}
	defer func() { _ = file.Close() }()

	text, err := s.transcriber.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	status := "ok"
	httpStatus := http.StatusOK

	if err := s.pinger.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		checks["database"] = "unavailable"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
