// Package youtube parses workouts from YouTube video links.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/repfeed/internal/ingest"
	"github.com/claude/repfeed/internal/metrics"
	"github.com/claude/repfeed/internal/models"
	"github.com/claude/repfeed/internal/parser"
)

// DefaultTitle replaces the parser's generic title for video workouts.
const DefaultTitle = "YouTube Workout"

var (
	ErrInvalidSourceURL    = errors.New("invalid youtube url")
	ErrMetadataFetchFailed = errors.New("youtube metadata fetch failed")
	ErrTitleFetchFailed    = errors.New("youtube title fetch failed")
)

// Provider is the video-link parser. Fetch failures are logged and recovered;
// Parse only fails if parsing itself panics.
type Provider struct {
	meta    MetadataFetcher
	titles  TitleFetcher
	timeout time.Duration
	log     *slog.Logger
}

var _ ingest.Parser = (*Provider)(nil)

// NewProvider creates a YouTube provider. timeout bounds each fetch; zero
// leaves the caller's context deadline as the only bound.
func NewProvider(meta MetadataFetcher, titles TitleFetcher, timeout time.Duration, log *slog.Logger) *Provider {
	return &Provider{meta: meta, titles: titles, timeout: timeout, log: log}
}

// Parse extracts the video id from rawURL, gathers whatever text it can from
// YouTube, appends caption and parses the result.
func (p *Provider) Parse(ctx context.Context, rawURL, caption string) (*models.ParsedWorkout, error) {
	return ingest.Guard(func() *models.ParsedWorkout {
		return p.parse(ctx, rawURL, caption)
	})
}

func (p *Provider) parse(ctx context.Context, rawURL, caption string) *models.ParsedWorkout {
	id, err := VideoID(rawURL)
	if err != nil {
		p.log.Warn("falling back to caption-only parse", "url", rawURL, "error", err)
		w := parser.ParseText(caption, models.SourceYouTube)
		p.finish(&w, "", rawURL, caption, models.Preview{})
		return &w
	}

	meta := p.fetchMetadata(ctx, id)

	var title string
	preview := models.Preview{Thumbnail: ThumbnailURL(id)}
	var parts []string
	if meta != nil {
		title = meta.Title
		parts = append(parts, meta.Title, meta.Description)
		preview.SourceCreator = meta.CreatorName
		preview.SourceDurationSeconds = meta.DurationSeconds
		if meta.ThumbnailURL != "" {
			preview.Thumbnail = meta.ThumbnailURL
		}
	}
	if title == "" {
		title = p.fetchTitle(ctx, id)
		if meta == nil {
			parts = append(parts, title)
		}
	}
	parts = append(parts, caption)

	text := joinNonEmpty(parts)
	w := parser.ParseText(text, models.SourceYouTube)
	p.finish(&w, title, rawURL, text, preview)
	return &w
}

// finish applies the fetched title and attaches source metadata.
func (p *Provider) finish(w *models.ParsedWorkout, title, rawURL, text string, preview models.Preview) {
	switch {
	case title != "":
		w.Title = title
	case w.Title == "" || w.Title == parser.DefaultTitle:
		w.Title = DefaultTitle
	}
	preview.SourceTitle = title
	w.Source = &models.SourceMetadata{
		Type:         models.SourceYouTube,
		URL:          rawURL,
		OriginalText: text,
		Preview:      preview,
	}
}

func (p *Provider) fetchMetadata(ctx context.Context, id string) *VideoMetadata {
	if p.meta == nil {
		return nil
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	meta, err := p.meta.FetchByID(ctx, id)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("metadata").Inc()
		p.log.Warn("metadata unavailable", "video_id", id, "error", fmt.Errorf("%w: %w", ErrMetadataFetchFailed, err))
		return nil
	}
	return meta
}

func (p *Provider) fetchTitle(ctx context.Context, id string) string {
	if p.titles == nil {
		return ""
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	title, err := p.titles.FetchTitle(ctx, CanonicalURL(id))
	if err != nil {
		metrics.FetchFailures.WithLabelValues("title").Inc()
		p.log.Warn("title unavailable", "video_id", id, "error", fmt.Errorf("%w: %w", ErrTitleFetchFailed, err))
		return ""
	}
	return strings.TrimSpace(title)
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func joinNonEmpty(parts []string) string {
	var out []string
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
