// Package parser recovers a structured workout from free text such as a video
// description, a social caption or a user paste. It is pure: no I/O, no
// package-level mutable state, safe for concurrent use.
package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/claude/repfeed/internal/models"
)

// DefaultTitle is used when no line qualifies as a title.
const DefaultTitle = "Custom Workout"

const (
	minTitleLen       = 6
	maxTitleLen       = 79
	minDescriptionLen = 51
	maxDescription    = 500
	descriptionLines  = 3
)

var (
	workoutWordRe = regexp.MustCompile(`(?i)workout`)

	// listMarkerRe matches: 1. , 2) , - , • , ▶
	listMarkerRe = regexp.MustCompile(`^(?:\d+[.)]|[-•*·▪◦●○■□◆◇►▶▸➡→➜➤✓✔])`)
)

// ParseText parses text into a workout. sourceType is recorded verbatim and
// defaults to "custom". ParseText never fails: unrecognised text yields an
// empty exercise list and default metadata.
func ParseText(text, sourceType string) models.ParsedWorkout {
	if sourceType == "" {
		sourceType = models.SourceCustom
	}
	lines := splitLines(text)

	exercises, sectionTags := parseExercises(lines)
	if len(exercises) == 0 {
		exercises = fallbackExercises(text)
	}
	for i := range exercises {
		exercises[i].Order = i
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	tags := make(map[string]struct{})
	for _, t := range ExtractTags(text) {
		tags[t] = struct{}{}
	}
	for _, t := range sectionTags {
		tags[t] = struct{}{}
	}

	w := models.ParsedWorkout{
		Title:       extractTitle(lines),
		Description: extractDescription(lines),
		Exercises:   exercises,
		Tags:        sortedTags(tags),
		Difficulty:  DetermineDifficulty(text),
		Equipment:   ExtractEquipment(text),
		SourceType:  sourceType,
	}
	if mins, ok := ExtractOverallDurationMinutes(text); ok {
		w.EstimatedDurationMinutes = &mins
	}
	return w
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func extractTitle(lines []string) string {
	for _, l := range lines {
		if workoutWordRe.MatchString(l) {
			return l
		}
	}
	for _, l := range lines {
		n := utf8.RuneCountInString(l)
		if n < minTitleLen || n > maxTitleLen {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(l); unicode.IsDigit(r) {
			continue
		}
		return l
	}
	return DefaultTitle
}

// extractDescription joins up to three lines starting at the first long prose
// line.
func extractDescription(lines []string) string {
	for i, l := range lines {
		if utf8.RuneCountInString(l) < minDescriptionLen || listMarkerRe.MatchString(l) {
			continue
		}
		end := min(i+descriptionLines, len(lines))
		return truncateRunes(strings.Join(lines[i:end], " "), maxDescription)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// fallbackExercises finds well-known movement names anywhere in text. It runs
// only when the line scan produced nothing.
func fallbackExercises(text string) []models.Exercise {
	lower := strings.ToLower(text)
	// Casers keep internal state, so each call gets its own.
	title := cases.Title(language.English)

	var out []models.Exercise
	for _, k := range fallbackKeywords {
		if !k.matches(lower) {
			continue
		}
		out = append(out, models.Exercise{
			Name:  title.String(k.name),
			Sets:  []models.ExerciseSet{{Reps: 10, RestSeconds: models.DefaultRestSeconds}},
			Order: len(out),
		})
	}
	return out
}
