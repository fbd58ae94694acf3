package mcp

import (
	"context"
	"errors"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
)

// DataSource is what the MCP tools need. Local runs the parsers in-process;
// HTTPClient forwards to a remote RepFeed server (over Tailscale).
type DataSource interface {
	ParseText(ctx context.Context, text, sourceType string) (*models.ParsedWorkout, error)
	ParseVideo(ctx context.Context, url, caption string) (*models.ParsedWorkout, error)
	ParseCaption(ctx context.Context, url, caption string) (*models.ParsedWorkout, error)
	ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error)
}

// WorkoutLister reads saved workouts. *storage.DB satisfies it.
type WorkoutLister interface {
	ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error)
}

// ErrNoStore is returned by Local when it was built without a database.
var ErrNoStore = errors.New("no workout store configured")

// Local runs parses in-process and reads saved workouts from Store.
// Store may be nil, in which case listing fails with ErrNoStore.
type Local struct {
	Video   ingest.Parser
	Caption ingest.Parser
	Store   WorkoutLister
}

var (
	_ DataSource = (*Local)(nil)
	_ DataSource = (*HTTPClient)(nil)
)

func (l *Local) ParseText(_ context.Context, text, sourceType string) (*models.ParsedWorkout, error) {
	w := parser.ParseText(text, sourceType)
	return &w, nil
}

func (l *Local) ParseVideo(ctx context.Context, url, caption string) (*models.ParsedWorkout, error) {
	return l.Video.Parse(ctx, url, caption)
}

func (l *Local) ParseCaption(ctx context.Context, url, caption string) (*models.ParsedWorkout, error) {
	return l.Caption.Parse(ctx, url, caption)
}

func (l *Local) ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error) {
	if l.Store == nil {
		return nil, ErrNoStore
	}
	return l.Store.ListParsedWorkouts(ctx, sourceType, limit)
}
