// Package instagram parses workouts from Instagram post captions.
package instagram

import (
	"context"
	"log/slog"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
)

// DefaultTitle replaces the parser's generic title for caption workouts.
const DefaultTitle = "Instagram Workout"

// Provider parses a caption supplied by the client. Instagram requires an
// authenticated session to read posts, so no network call is made.
type Provider struct {
	log *slog.Logger
}

var _ ingest.Parser = (*Provider)(nil)

// NewProvider creates an Instagram caption provider.
func NewProvider(log *slog.Logger) *Provider {
	return &Provider{log: log}
}

// Parse parses caption and attaches the post URL as source metadata.
func (p *Provider) Parse(_ context.Context, url, caption string) (*models.ParsedWorkout, error) {
	return ingest.Guard(func() *models.ParsedWorkout {
		w := parser.ParseText(caption, models.SourceInstagram)
		if w.Title == "" || w.Title == parser.DefaultTitle {
			w.Title = DefaultTitle
		}
		w.Source = &models.SourceMetadata{
			Type:         models.SourceInstagram,
			URL:          url,
			OriginalText: caption,
		}
		p.log.Debug("parsed caption", "url", url, "exercises", len(w.Exercises))
		return &w
	})
}
