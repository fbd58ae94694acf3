package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/claude/repfeed/internal/models"
)

const (
	minNameLen = 3
	maxNameLen = 49

	// maxBareNameWords separates exercise names from prose; real movement
	// names rarely run past five words.
	maxBareNameWords = 5
)

var (
	// delimitedRe matches: Squats: 3x10, Plank - 45 sec, Lunges – 12 each side
	delimitedRe = regexp.MustCompile(`^(.+?)(?:\s*:\s*|\s+[-–—]\s+|\s*[–—]\s*)(.+)$`)

	// parentheticalRe matches: Squats (3x10)
	parentheticalRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)

	// timestampRe matches: 0:45 - Jumping Jacks, 12:30 Burpees
	timestampRe = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s*[-–—:]?\s*(.+)$`)

	// detailOnlyRe matches lines made only of numbers, punctuation and unit
	// words, e.g. "3 x 10", "45 sec", "3 sets of 12 each side".
	detailOnlyRe = regexp.MustCompile(`(?i)^[\d\s:x×\-–—,/.()+]*(?:(?:sets?|reps?|secs?|seconds?|mins?|minutes?|s|m|of|each|side|per|x)\b[\d\s:x×\-–—,/.()+]*)*$`)

	numericRe = regexp.MustCompile(`^[\d\s.,:/x×\-]+$`)

	// noisePhraseRe matches section-like phrases that are not movements.
	noisePhraseRe = regexp.MustCompile(`(?i)^(?:warm[\s-]?up|cool[\s-]?down|round\s*\d*|rounds|circuit\s*\d*|block\s*\d*|part\s*\d*|day\s*\d*|week\s*\d*|set\s*\d*|finisher|repeat.*|rest.*|superset\s*\d*|tabata|amrap|emom|workout|exercises?|instructions|notes?|tips?|equipment|intro|outro|let'?s go|go|done|enjoy|that'?s it)$`)

	// sectionTailRe matches short phrases that name a block rather than a
	// movement: Leg Day, Full Body Circuit, Cardio Finisher 2
	sectionTailRe = regexp.MustCompile(`(?i)\b(?:day|circuit|round|block|part|section|finisher|superset|session|split|warm[\s-]?up|cool[\s-]?down)(?:\s*\d+)?$`)

	// titleWordRe matches words that mark a line as a title, not a movement.
	titleWordRe = regexp.MustCompile(`(?i)\b(?:workouts?|routines?|programs?|challenges?)\b`)

	proseRe = regexp.MustCompile(`[,.!?;:"]`)

	sentimentRe = regexp.MustCompile(`(?i)\b(?:love|feel|feeling|happy|thank|thanks|grateful|blessed|proud|vibes?|mood|let'?s|you|your|we|i)\b|[!?']`)
)

// pendingExercise is a bare exercise name waiting for the detail line that
// follows it.
type pendingExercise struct {
	name  string
	notes string
	sets  []models.ExerciseSet
}

// lineState is the state carried across lines by the exercise scanner.
type lineState struct {
	order       int
	section     string
	timing      sectionTiming
	pending     *pendingExercise
	exercises   []models.Exercise
	sectionTags []string
}

func (s *lineState) emit(name, notes string, sets []models.ExerciseSet) {
	s.exercises = append(s.exercises, models.Exercise{
		Name:  name,
		Sets:  sets,
		Notes: notes,
		Order: s.order,
	})
	s.order++
}

func (s *lineState) sectionNote() string {
	if s.section == "" {
		return ""
	}
	return "Section: " + s.section
}

// parseExercises walks the non-blank lines once and returns the exercises in
// emission order plus tags derived from section headers.
func parseExercises(lines []string) ([]models.Exercise, []string) {
	st := &lineState{}

	for i, line := range lines {
		kind := classifyLine(line)
		if kind == lineSection {
			name, timing, _ := parseSectionHeader(line)
			st.section = name
			st.timing = timing
			if tag := strings.ToLower(name); utf8.RuneCountInString(tag) >= 3 && utf8.RuneCountInString(tag) < 30 {
				st.sectionTags = append(st.sectionTags, tag)
			}
			continue
		}

		if st.pending != nil {
			if sets, ok := detailSets(stripLeadingMarker(line)); ok {
				st.pending.sets = append(st.pending.sets, sets...)
				st.emit(st.pending.name, st.pending.notes, st.pending.sets)
				st.pending = nil
				continue
			}
		}

		if kind == lineNoise {
			continue
		}

		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		st.parseCandidate(line, next)
	}

	if st.pending != nil && len(st.pending.sets) > 0 {
		st.emit(st.pending.name, st.pending.notes, st.pending.sets)
	}
	return st.exercises, st.sectionTags
}

// parseCandidate tries each line pattern in order; the first one that emits or
// buffers an exercise wins.
func (s *lineState) parseCandidate(raw, next string) {
	line := stripLeadingMarker(raw)
	if line == "" {
		return
	}

	// name: details
	if m := delimitedRe.FindStringSubmatch(line); m != nil {
		name := CleanExerciseName(m[1])
		if validName(name) {
			if sets, ok := detailSets(m[2]); ok {
				s.emit(name, "", sets)
				return
			}
		}
	}

	// name (details)
	if m := parentheticalRe.FindStringSubmatch(line); m != nil {
		name := CleanExerciseName(m[1])
		if validName(name) {
			if sr, ok := ParseSetsAndReps(m[2]); ok {
				s.emit(name, m[2], repeatSets(sr, 0, models.DefaultRestSeconds))
				return
			}
		}
	}

	// 0:45 - name
	if m := timestampRe.FindStringSubmatch(line); m != nil {
		name := CleanExerciseName(m[2])
		if validName(name) {
			s.emit(name, "", []models.ExerciseSet{{RestSeconds: models.DefaultRestSeconds}})
			return
		}
	}

	// name 3x10
	if sr, loc := matchSetsAndReps(line); loc != nil {
		if name := nameAround(line, loc); validName(name) {
			s.emit(name, "", repeatSets(sr, 0, models.DefaultRestSeconds))
			return
		}
	}

	// name 45 sec
	if secs, loc := matchTimeDuration(line); loc != nil {
		if name := nameAround(line, loc); validName(name) {
			s.emit(name, "", []models.ExerciseSet{{DurationSeconds: secs, RestSeconds: models.DefaultRestSeconds}})
			return
		}
	}

	// bare name
	name := CleanExerciseName(line)
	if !acceptBareName(name, raw) {
		return
	}
	if next != "" && isDetailLine(next) {
		s.pending = &pendingExercise{name: name, notes: s.sectionNote()}
		return
	}

	duration := s.timing.Work
	if duration == 0 {
		duration, _ = ParseTimeDurationSeconds(line)
	}
	rest := s.timing.Rest
	if rest == 0 {
		rest = models.DefaultRestSeconds
	}
	reps := 0
	if duration == 0 {
		reps = 10
	}
	s.emit(name, s.sectionNote(), []models.ExerciseSet{{Reps: reps, DurationSeconds: duration, RestSeconds: rest}})
}

// detailSets turns detail text ("3x10", "45 sec", "3 sets of 12, rest 30s")
// into a set list. Rest phrases are removed before reading the work duration
// so "rest 30s" is not mistaken for a 30 second set.
func detailSets(details string) ([]models.ExerciseSet, bool) {
	rest := ParseRestSeconds(details)
	work := restClauseRe.ReplaceAllString(details, "")
	duration, hasTime := ParseTimeDurationSeconds(work)
	if sr, ok := ParseSetsAndReps(work); ok {
		return repeatSets(sr, duration, rest), true
	}
	if hasTime {
		return []models.ExerciseSet{{DurationSeconds: duration, RestSeconds: rest}}, true
	}
	return nil, false
}

func repeatSets(sr SetsReps, duration, rest int) []models.ExerciseSet {
	sets := make([]models.ExerciseSet, sr.Sets)
	for i := range sets {
		sets[i] = models.ExerciseSet{Reps: sr.Reps, DurationSeconds: duration, RestSeconds: rest}
	}
	return sets
}

// nameAround returns the exercise name next to a detail match: the text
// before it, or the text after it when nothing precedes the match.
func nameAround(line string, loc []int) string {
	if before := strings.TrimSpace(line[:loc[0]]); hasLetters(before, 2) {
		return CleanExerciseName(before)
	}
	return CleanExerciseName(line[loc[1]:])
}

// isDetailLine reports whether a look-ahead line is nothing but set, rep or
// time detail for the line above it.
func isDetailLine(line string) bool {
	if _, _, ok := parseSectionHeader(line); ok {
		return false
	}
	line = stripLeadingMarker(line)
	if restLineRe.MatchString(line) || !detailOnlyRe.MatchString(line) {
		return false
	}
	_, ok := detailSets(line)
	return ok
}

func hasLetters(s string, n int) bool {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			count++
			if count >= n {
				return true
			}
		}
	}
	return false
}

// validName is the length and content check shared by every pattern.
func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return false
	}
	if !hasLetters(name, 2) || detailOnlyRe.MatchString(name) {
		return false
	}
	return !noisePhraseRe.MatchString(name) && !titleWordRe.MatchString(name)
}

// acceptBareName applies the stricter checks for a line with no set, rep or
// time detail of its own.
func acceptBareName(name, raw string) bool {
	if !validName(name) || numericRe.MatchString(name) || strings.Contains(name, "#") {
		return false
	}
	words := strings.Fields(name)
	if len(words) == 1 && utf8.RuneCountInString(name) < 4 {
		return false
	}
	if len(words) <= 3 && sectionTailRe.MatchString(name) {
		return false
	}
	if len(words) > maxBareNameWords || proseRe.MatchString(name) {
		return false
	}
	return !isEmojiLedSentiment(raw)
}

// isEmojiLedSentiment matches caption chatter like "💪 Let's get it!".
func isEmojiLedSentiment(raw string) bool {
	r, _ := utf8.DecodeRuneInString(raw)
	if !unicode.Is(unicode.So, r) {
		return false
	}
	return sentimentRe.MatchString(raw)
}
