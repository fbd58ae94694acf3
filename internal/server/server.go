package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the HTTP handlers need. *storage.DB satisfies it.
type Store interface {
	InsertParsedWorkout(ctx context.Context, w *models.ParsedWorkout) (*models.SavedWorkout, error)
	GetParsedWorkout(ctx context.Context, id uuid.UUID) (*models.SavedWorkout, error)
	ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error)
	InsertParseLog(ctx context.Context, log storage.ParseLog) (int64, error)
	QueryParseLogs(ctx context.Context, limit int) ([]storage.ParseLog, error)
	Ping(ctx context.Context) error
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	video    ingest.Parser
	caption  ingest.Parser
	log      *slog.Logger
	apiKey   string
	identity func(http.Handler) http.Handler
	router   chi.Router
}

// New creates a new Server with all routes configured. Requests are tagged
// with the local dev identity until SetTailscale is called.
func New(store Store, video, caption ingest.Parser, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		video:    video,
		caption:  caption,
		log:      log,
		apiKey:   apiKey,
		identity: DevIdentity,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity to the tailnet peer that sent it.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.identity = TailscaleIdentity(lc, s.log)
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp behind the API key.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.identity(next).ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics)
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(s.withIdentity)

		r.Get("/me", s.handleMe)

		r.Post("/parse/text", s.handleParseText)
		r.Post("/parse/video", s.handleParseVideo)
		r.Post("/parse/caption", s.handleParseCaption)
		r.Post("/parse/preview", s.handlePreview)
		r.Get("/parse/logs", s.handleParseLogs)

		r.Post("/workouts", s.handleSaveWorkout)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
	})
}
