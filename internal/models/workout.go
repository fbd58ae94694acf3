package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the coarse training level of a parsed workout.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty labels.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Source types recorded on SourceMetadata.
const (
	SourceCustom    = "custom"
	SourceYouTube   = "youtube"
	SourceInstagram = "instagram"
)

// DefaultRestSeconds is the rest interval assumed when the text gives none.
const DefaultRestSeconds = 60

// ExerciseSet is one block of work: either reps or a timed duration, plus rest.
// Weight is unit-less; the caller decides kg or lb.
type ExerciseSet struct {
	Reps            int     `json:"reps"`
	Weight          float64 `json:"weight"`
	DurationSeconds int     `json:"durationSeconds"`
	RestSeconds     int     `json:"restSeconds"`
}

// Exercise is one named movement within a workout.
type Exercise struct {
	Name  string        `json:"name"`
	Sets  []ExerciseSet `json:"sets"`
	Notes string        `json:"notes"`
	Order int           `json:"order"`
}

// Preview carries what the source platform told us about the original post.
type Preview struct {
	Thumbnail             string `json:"thumbnail"`
	SourceTitle           string `json:"sourceTitle"`
	SourceCreator         string `json:"sourceCreator"`
	SourceDurationSeconds int    `json:"sourceDurationSeconds"`
}

// SourceMetadata is attached by the source wrappers, never by the text parser.
type SourceMetadata struct {
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	OriginalText string  `json:"originalText"`
	Preview      Preview `json:"preview"`
}

// ParsedWorkout is the structured result of parsing free text.
type ParsedWorkout struct {
	Title                    string          `json:"title"`
	Description              string          `json:"description"`
	Exercises                []Exercise      `json:"exercises"`
	Tags                     []string        `json:"tags"`
	Difficulty               Difficulty      `json:"difficulty"`
	EstimatedDurationMinutes *int            `json:"estimatedDurationMinutes,omitempty"`
	Equipment                string          `json:"equipment"`
	SourceType               string          `json:"sourceType"`
	Source                   *SourceMetadata `json:"source,omitempty"`
}

// Validate checks the structural invariants of a workout. It is used before
// storing a workout that a client may have edited after parsing.
func (w *ParsedWorkout) Validate() error {
	if w.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !w.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", w.Difficulty)
	}
	seen := make(map[string]bool, len(w.Tags))
	for _, t := range w.Tags {
		if seen[t] {
			return fmt.Errorf("duplicate tag %q", t)
		}
		seen[t] = true
	}
	for i, ex := range w.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("exercise %d: name is required", i)
		}
		if len(ex.Sets) == 0 {
			return fmt.Errorf("exercise %d (%s): at least one set is required", i, ex.Name)
		}
		if ex.Order != i {
			return fmt.Errorf("exercise %d (%s): order = %d, want %d", i, ex.Name, ex.Order, i)
		}
		for j, s := range ex.Sets {
			if s.Reps < 0 || s.Weight < 0 || s.DurationSeconds < 0 || s.RestSeconds < 0 {
				return fmt.Errorf("exercise %d (%s) set %d: negative value", i, ex.Name, j)
			}
		}
	}
	return nil
}

// SavedWorkout is a parsed workout as stored in the parsed_workouts table.
type SavedWorkout struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Workout   ParsedWorkout `json:"workout"`
}
