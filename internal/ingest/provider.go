package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/claude/repfeed/internal/models"
)

// ErrInternalParser is returned when every degradation path of a source
// wrapper failed. Callers should treat it as a server error.
var ErrInternalParser = errors.New("internal parser error")

// Parser turns a source URL plus accompanying caption text into a workout.
// Implementations degrade to a best-effort result instead of failing on
// network or lookup errors.
type Parser interface {
	Parse(ctx context.Context, sourceURL, caption string) (*models.ParsedWorkout, error)
}

// Result is the short preview summary of a parse.
type Result struct {
	Title         string `json:"title"`
	ExerciseCount int    `json:"exerciseCount"`
	Summary       string `json:"summary"`
}

// Summarize builds the human-readable preview summary for w.
func Summarize(w *models.ParsedWorkout) Result {
	n := len(w.Exercises)
	noun := "exercises"
	if n == 1 {
		noun = "exercise"
	}
	return Result{
		Title:         w.Title,
		ExerciseCount: n,
		Summary:       fmt.Sprintf("Found %d %s", n, noun),
	}
}

// Guard runs fn and converts a panic into ErrInternalParser.
func Guard(fn func() *models.ParsedWorkout) (w *models.ParsedWorkout, err error) {
	defer func() {
		if r := recover(); r != nil {
			w = nil
			err = fmt.Errorf("%w: %v", ErrInternalParser, r)
		}
	}()
	return fn(), nil
}

// SourceForURL picks the source type for a post URL by host: youtube,
// instagram, or custom for anything else.
func SourceForURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return models.SourceCustom
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtube.com", "youtu.be", "music.youtube.com":
		return models.SourceYouTube
	case "instagram.com", "instagr.am":
		return models.SourceInstagram
	}
	return models.SourceCustom
}
