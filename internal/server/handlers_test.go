package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
	"github.com/claude/repfeed/internal/storage"
	"github.com/google/uuid"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

type fakeStore struct {
	saved   []models.SavedWorkout
	logs    []storage.ParseLog
	saveErr error
	pingErr error
}

func (f *fakeStore) InsertParsedWorkout(ctx context.Context, w *models.ParsedWorkout) (*models.SavedWorkout, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	sw := models.SavedWorkout{ID: uuid.New(), CreatedAt: time.Now(), Workout: *w}
	f.saved = append(f.saved, sw)
	return &sw, nil
}

func (f *fakeStore) GetParsedWorkout(ctx context.Context, id uuid.UUID) (*models.SavedWorkout, error) {
	for i := range f.saved {
		if f.saved[i].ID == id {
			return &f.saved[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error) {
	var out []models.SavedWorkout
	for _, sw := range f.saved {
		if sourceType == "" || sw.Workout.SourceType == sourceType {
			out = append(out, sw)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertParseLog(ctx context.Context, l storage.ParseLog) (int64, error) {
	f.logs = append(f.logs, l)
	return int64(len(f.logs)), nil
}

func (f *fakeStore) QueryParseLogs(ctx context.Context, limit int) ([]storage.ParseLog, error) {
	return f.logs, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

type fakeParser struct {
	source string
	err    error
}

func (f fakeParser) Parse(ctx context.Context, sourceURL, caption string) (*models.ParsedWorkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	w := parser.ParseText(caption, f.source)
	w.Source = &models.SourceMetadata{Type: f.source, URL: sourceURL, OriginalText: caption}
	return &w, nil
}

const testKey = "test-key"

func newTestServer(store *fakeStore, video ingest.Parser) *Server {
	if video == nil {
		video = fakeParser{source: models.SourceYouTube}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, video, fakeParser{source: models.SourceInstagram}, testKey, log)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-API-Key", testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

const squatText = "Leg Day Workout\n\nSquats 3x10\nLunges 3 sets of 12 reps\nPlank 45 sec"

// TestParseTextEndpoint verifies text parsing and the parse log it writes.
func TestParseTextEndpoint(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, nil)

	body, _ := json.Marshal(parseTextRequest{Text: squatText})
	rec := do(t, s, http.MethodPost, "/api/v1/parse/text", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got models.ParsedWorkout
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Title != "Leg Day Workout" {
		t.Errorf("title = %q, want %q", got.Title, "Leg Day Workout")
	}
	if len(got.Exercises) != 3 {
		t.Errorf("exercises = %d, want 3", len(got.Exercises))
	}
	if got.SourceType != models.SourceCustom {
		t.Errorf("sourceType = %q, want custom", got.SourceType)
	}
	if len(store.saved) != 0 {
		t.Errorf("saved = %d, want 0 without ?save", len(store.saved))
	}
	if len(store.logs) != 1 {
		t.Fatalf("parse logs = %d, want 1", len(store.logs))
	}
	l := store.logs[0]
	if l.Status != storage.ParseStatusSuccess || l.ExerciseCount != 3 || l.RequestedBy != "local" {
		t.Errorf("parse log = %+v", l)
	}
}

// TestParseTextSave verifies ?save=true stores the result and returns 201.
func TestParseTextSave(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, nil)

	body, _ := json.Marshal(parseTextRequest{Text: squatText})
	rec := do(t, s, http.MethodPost, "/api/v1/parse/text?save=true", string(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var saved models.SavedWorkout
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].ID != saved.ID {
		t.Fatalf("saved = %v, want the returned record", store.saved)
	}
	if store.logs[0].WorkoutID == nil || *store.logs[0].WorkoutID != saved.ID {
		t.Errorf("parse log workout id = %v, want %s", store.logs[0].WorkoutID, saved.ID)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workouts/"+saved.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", rec.Code)
	}
}

// TestParseVideoEndpoint verifies the video route delegates to the video parser.
func TestParseVideoEndpoint(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, nil)

	body, _ := json.Marshal(parseLinkRequest{URL: "https://youtu.be/dQw4w9WgXcQ", Caption: squatText})
	rec := do(t, s, http.MethodPost, "/api/v1/parse/video", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.ParsedWorkout
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.Source == nil || got.Source.Type != models.SourceYouTube {
		t.Errorf("source = %+v, want youtube", got.Source)
	}
	if store.logs[0].SourceURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("log url = %q", store.logs[0].SourceURL)
	}
}

// TestParseLinkRequiresURL verifies an empty url is a 400.
func TestParseLinkRequiresURL(t *testing.T) {
	s := newTestServer(&fakeStore{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/parse/caption", `{"caption":"Squats 3x10"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestParseInternalError verifies ErrInternalParser becomes a 500 and an error log.
func TestParseInternalError(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, fakeParser{err: ingest.ErrInternalParser})

	rec := do(t, s, http.MethodPost, "/api/v1/parse/video", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if len(store.logs) != 1 || store.logs[0].Status != storage.ParseStatusError || store.logs[0].ErrorMessage == nil {
		t.Errorf("parse logs = %+v", store.logs)
	}
}

// TestPreviewEndpoint verifies the summary and host-based source inference.
func TestPreviewEndpoint(t *testing.T) {
	tests := []struct {
		name string
		body previewRequest
		want string
	}{
		{"custom", previewRequest{Source: "custom", Text: squatText}, "Found 3 exercises"},
		{"inferred instagram", previewRequest{URL: "https://www.instagram.com/p/abc/", Text: "Burpees 3x15"}, "Found 1 exercise"},
		{"empty", previewRequest{Source: "custom", Text: "hello there"}, "Found 0 exercises"},
	}
	s := newTestServer(&fakeStore{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			rec := do(t, s, http.MethodPost, "/api/v1/parse/preview", string(body))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var got ingest.Result
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if got.Summary != tt.want {
				t.Errorf("summary = %q, want %q", got.Summary, tt.want)
			}
		})
	}
}

// TestPreviewWritesParseLog verifies previews are logged without a workout ID.
func TestPreviewWritesParseLog(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, nil)
	body, _ := json.Marshal(previewRequest{URL: "https://www.instagram.com/p/abc/", Text: "Burpees 3x15"})
	rec := do(t, s, http.MethodPost, "/api/v1/parse/preview", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.logs) != 1 {
		t.Fatalf("parse logs = %d, want 1", len(store.logs))
	}
	l := store.logs[0]
	if l.Source != models.SourceInstagram || l.Status != storage.ParseStatusSuccess {
		t.Errorf("log source/status = %q/%q", l.Source, l.Status)
	}
	if l.ExerciseCount != 1 || l.WorkoutID != nil || l.DurationMs == nil {
		t.Errorf("log = %+v, want 1 exercise, no workout ID, a duration", l)
	}
	if len(store.saved) != 0 {
		t.Errorf("preview saved %d workouts", len(store.saved))
	}
}

// TestPreviewUnknownSource verifies an unsupported source is a 400.
func TestPreviewUnknownSource(t *testing.T) {
	s := newTestServer(&fakeStore{}, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/parse/preview", `{"source":"tiktok","text":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestSaveWorkoutValidates verifies edited workouts are checked before storing.
func TestSaveWorkoutValidates(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(store, nil)

	bad := `{"title":"Edited","difficulty":"intermediate","exercises":[{"name":"Squats","sets":[],"order":0}]}`
	rec := do(t, s, http.MethodPost, "/api/v1/workouts", bad)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	good := `{"title":"Edited","difficulty":"intermediate","exercises":[{"name":"Squats","sets":[{"reps":10,"restSeconds":60}],"order":0}]}`
	rec = do(t, s, http.MethodPost, "/api/v1/workouts", good)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(store.saved) != 1 || store.saved[0].Workout.SourceType != models.SourceCustom {
		t.Errorf("saved = %+v", store.saved)
	}
}

// TestGetWorkoutErrors verifies bad and unknown ids.
func TestGetWorkoutErrors(t *testing.T) {
	s := newTestServer(&fakeStore{}, nil)
	if rec := do(t, s, http.MethodGet, "/api/v1/workouts/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/workouts/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

// TestRoutesRequireAPIKey verifies /api/v1 rejects requests without a key.
func TestRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(&fakeStore{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestHealthz verifies the health check reflects the database ping.
func TestHealthz(t *testing.T) {
	s := newTestServer(&fakeStore{}, nil)
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	s = newTestServer(&fakeStore{pingErr: errors.New("down")}, nil)
	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// TestQueryLimit verifies limit parsing and clamping.
func TestQueryLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"limit=5", 5},
		{"limit=-1", 20},
		{"limit=abc", 20},
		{"limit=1000", 200},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := queryLimit(req, 20); got != tt.want {
			t.Errorf("queryLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
