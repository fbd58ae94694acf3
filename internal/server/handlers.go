package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/metrics"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
	"github.com/claude/repfeed/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type parseTextRequest struct {
	Text       string `json:"text"`
	SourceType string `json:"sourceType"`
}

type parseLinkRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type previewRequest struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Text   string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var req parseTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start := time.Now()
	parsed := parser.ParseText(req.Text, req.SourceType)
	s.respondParsed(w, r, parsed.SourceType, "", start, &parsed, nil)
}

func (s *Server) handleParseVideo(w http.ResponseWriter, r *http.Request) {
	s.handleParseLink(w, r, models.SourceYouTube, s.video)
}

func (s *Server) handleParseCaption(w http.ResponseWriter, r *http.Request) {
	s.handleParseLink(w, r, models.SourceInstagram, s.caption)
}

func (s *Server) handleParseLink(w http.ResponseWriter, r *http.Request, source string, p ingest.Parser) {
	var req parseLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	start := time.Now()
	parsed, err := p.Parse(r.Context(), req.URL, req.Caption)
	s.respondParsed(w, r, source, req.URL, start, parsed, err)
}

// handlePreview parses without persisting and returns only the summary.
// An empty source is inferred from the URL host. The parse is logged like
// any other, without a workout ID.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	source := req.Source
	if source == "" {
		source = ingest.SourceForURL(req.URL)
	}

	start := time.Now()
	var (
		parsed *models.ParsedWorkout
		err    error
	)
	switch source {
	case models.SourceYouTube:
		parsed, err = s.video.Parse(r.Context(), req.URL, req.Text)
	case models.SourceInstagram:
		parsed, err = s.caption.Parse(r.Context(), req.URL, req.Text)
	case models.SourceCustom:
		pw := parser.ParseText(req.Text, models.SourceCustom)
		parsed = &pw
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown source " + strconv.Quote(source)})
		return
	}

	entry := storage.ParseLog{
		Source:      source,
		SourceURL:   req.URL,
		RequestedBy: userInfoFromContext(r).Login,
	}
	if err != nil {
		entry.Status = storage.ParseStatusError
		msg := err.Error()
		entry.ErrorMessage = &msg
		s.logParse(r, entry, start)
		s.log.Error("preview parse error", "source", source, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}
	entry.Status = storage.ParseStatusSuccess
	entry.ExerciseCount = len(parsed.Exercises)
	s.logParse(r, entry, start)
	writeJSON(w, http.StatusOK, ingest.Summarize(parsed))
}

// respondParsed records the parse outcome and writes the response. With
// ?save=true the workout is stored and the saved record is returned.
func (s *Server) respondParsed(w http.ResponseWriter, r *http.Request, source, sourceURL string, start time.Time, parsed *models.ParsedWorkout, err error) {
	entry := storage.ParseLog{
		Source:      source,
		SourceURL:   sourceURL,
		RequestedBy: userInfoFromContext(r).Login,
	}
	defer func() { s.logParse(r, entry, start) }()

	if err != nil {
		entry.Status = storage.ParseStatusError
		msg := err.Error()
		entry.ErrorMessage = &msg
		s.log.Error("parse error", "source", source, "url", sourceURL, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}

	entry.Status = storage.ParseStatusSuccess
	entry.ExerciseCount = len(parsed.Exercises)
	metrics.ExercisesPerParse.WithLabelValues(source).Observe(float64(len(parsed.Exercises)))

	if r.URL.Query().Get("save") != "true" {
		writeJSON(w, http.StatusOK, parsed)
		return
	}
	saved, err := s.store.InsertParsedWorkout(r.Context(), parsed)
	if err != nil {
		entry.Status = storage.ParseStatusError
		msg := err.Error()
		entry.ErrorMessage = &msg
		s.log.Error("saving parsed workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}
	entry.WorkoutID = &saved.ID
	writeJSON(w, http.StatusCreated, saved)
}

// logParse counts the outcome and writes the parse log entry.
func (s *Server) logParse(r *http.Request, entry storage.ParseLog, start time.Time) {
	ms := int(time.Since(start).Milliseconds())
	entry.DurationMs = &ms
	metrics.ParseCount.WithLabelValues(entry.Source, entry.Status).Inc()
	if _, err := s.store.InsertParseLog(r.Context(), entry); err != nil {
		s.log.Error("failed to write parse log", "error", err)
	}
}

func (s *Server) handleParseLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.QueryParseLogs(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleSaveWorkout stores a workout a client may have edited after parsing.
func (s *Server) handleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	var parsed models.ParsedWorkout
	if !decodeBody(w, r, &parsed) {
		return
	}
	if parsed.SourceType == "" {
		parsed.SourceType = models.SourceCustom
	}
	if err := parsed.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	saved, err := s.store.InsertParsedWorkout(r.Context(), &parsed)
	if err != nil {
		s.log.Error("saving workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListParsedWorkouts(r.Context(), r.URL.Query().Get("source"), queryLimit(r, 20))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	saved, err := s.store.GetParsedWorkout(r.Context(), workoutID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// decodeBody decodes a size-limited JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// queryLimit reads ?limit=N, falling back to def for missing or bad values.
func queryLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > 200 {
		return 200
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
