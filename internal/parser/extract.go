package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/repfeed/internal/models"
)

// maxSets caps the set count read from text like "100x10" so a typo cannot
// produce an absurd set list.
const maxSets = 20

var (
	// minutesRe matches: 30 min, 45 minutes, 20mins
	minutesRe = regexp.MustCompile(`(?i)(\d+)\s*min(?:ute)?s?\b`)

	// hoursRe matches: 1 hour, 2 hrs, 1h
	hoursRe = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?|h)\b`)

	// clockRe matches: 1:30, 12:05
	clockRe = regexp.MustCompile(`\b(\d{1,3}):(\d{2})\b`)

	// secondsRe matches: 45 sec, 30s, 20 seconds
	secondsRe = regexp.MustCompile(`(?i)(\d+)\s*s(?:ec(?:ond)?s?)?\b`)
)

// setsRepsPattern is one entry of the ordered sets/reps cascade. A zero
// group index means the value is implied to be 1.
type setsRepsPattern struct {
	re        *regexp.Regexp
	setsGroup int
	repsGroup int
}

var setsRepsPatterns = []setsRepsPattern{
	// 3x10, 3 x 10, 3 sets 10
	{regexp.MustCompile(`(?i)(\d+)\s*(?:x|×|sets?)\s*(\d+)`), 1, 2},
	// 3 sets of 12
	{regexp.MustCompile(`(?i)(\d+)\s*sets?\s+of\s+(\d+)`), 1, 2},
	// 12 reps x 3 sets
	{regexp.MustCompile(`(?i)(\d+)\s*reps?\s*[x×]\s*(\d+)\s*sets?`), 2, 1},
	// 10-12 reps (lower bound wins)
	{regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*\d+\s*reps?\b`), 0, 1},
	// 20 reps
	{regexp.MustCompile(`(?i)(\d+)\s*reps?\b`), 0, 1},
	// x10
	{regexp.MustCompile(`(?i)(?:^|\s)[x×]\s*(\d+)\b`), 0, 1},
}

// restPatterns are tried in order; the multiplier converts the capture to seconds.
var restPatterns = []struct {
	re   *regexp.Regexp
	mult int
}{
	{regexp.MustCompile(`(?i)rest\s*:?\s*(\d+)\s*s(?:ec(?:ond)?s?)?\b`), 1},
	{regexp.MustCompile(`(?i)(\d+)\s*s(?:ec(?:ond)?s?)?\s*(?:of\s+)?rest\b`), 1},
	{regexp.MustCompile(`(?i)rest\s*:?\s*(\d+)\s*min(?:ute)?s?\b`), 60},
}

// restClauseRe matches a whole rest phrase so it can be removed before the
// per-set duration is read from the same detail text.
var restClauseRe = regexp.MustCompile(`(?i)rest\s*:?\s*\d+\s*(?:s(?:ec(?:ond)?s?)?|min(?:ute)?s?)\b|\d+\s*(?:s(?:ec(?:ond)?s?)?|min(?:ute)?s?)\s*(?:of\s+)?rest\b`)

var (
	leadingMarkerRe   = regexp.MustCompile(`^(?:\d{1,2}[.)]\s*|[-–—•*·▪◦●○■□◆◇►▶▸➡→➜➤✓✔]\x{FE0F}?\s*|[\p{So}\p{Sk}\x{200D}]\x{FE0F}?\s*)+`)
	leadingHashRe     = regexp.MustCompile(`^#\d*\s*`)
	trailingParenRe   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingDashNumRe = regexp.MustCompile(`\s+[-–—]\s*\d.*$`)
	trailingSetsRe    = regexp.MustCompile(`(?i)\s*\d+\s*[x×]\s*\d+.*$`)
	trailingXRe       = regexp.MustCompile(`(?i)\s+[x×]\s*\d+.*$`)
	trailingPunctRe   = regexp.MustCompile(`[\s:\-–—,(\[{]+$`)
)

var (
	noEquipmentRe       = regexp.MustCompile(`(?i)\b(?:no[\s-]equipment|bodyweight|body weight|no weights)\b`)
	weightedEquipmentRe = regexp.MustCompile(`(?i)\d+\s*[x×]\s*\d+(?:\.\d+)?\s*(?:kg|lbs?|pounds?)\s+(dumbbell|kettlebell|barbell|plate)s?\b`)

	beginnerRe = regexp.MustCompile(`(?i)\b(?:beginners?|easy|newbies?|starter|low[\s-]impact)\b`)
	advancedRe = regexp.MustCompile(`(?i)\b(?:advanced|hard|intense|expert|extreme|elite)\b`)
)

// equipmentLabels is the substring fallback chain for ExtractEquipment.
var equipmentLabels = []struct {
	needle string
	label  string
}{
	{"dumbbell", "dumbbells"},
	{"kettlebell", "kettlebell"},
	{"resistance band", "resistance bands"},
	{"barbell", "barbell"},
	{"weight", "weights"},
}

// SetsReps is a set count paired with the reps performed in each set.
type SetsReps struct {
	Sets int
	Reps int
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ExtractOverallDurationMinutes returns the first workout length mentioned in
// text. Clock notation "M:SS" is reported as M*60+S minutes.
func ExtractOverallDurationMinutes(text string) (int, bool) {
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		return atoi(m[1]), true
	}
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		return atoi(m[1]) * 60, true
	}
	if m := clockRe.FindStringSubmatch(text); m != nil {
		return atoi(m[1])*60 + atoi(m[2]), true
	}
	return 0, false
}

// ParseTimeDurationSeconds returns the per-set time mentioned in text.
func ParseTimeDurationSeconds(text string) (int, bool) {
	secs, loc := matchTimeDuration(text)
	return secs, loc != nil
}

func matchTimeDuration(text string) (int, []int) {
	if m := secondsRe.FindStringSubmatchIndex(text); m != nil {
		return atoi(text[m[2]:m[3]]), m[:2]
	}
	if m := clockRe.FindStringSubmatchIndex(text); m != nil {
		return atoi(text[m[2]:m[3]])*60 + atoi(text[m[4]:m[5]]), m[:2]
	}
	if m := minutesRe.FindStringSubmatchIndex(text); m != nil {
		return atoi(text[m[2]:m[3]]) * 60, m[:2]
	}
	return 0, nil
}

// ParseSetsAndReps reads a sets×reps pair from text. The first matching
// pattern wins; a lone rep count means a single set.
func ParseSetsAndReps(text string) (SetsReps, bool) {
	sr, loc := matchSetsAndReps(text)
	return sr, loc != nil
}

func matchSetsAndReps(text string) (SetsReps, []int) {
	for _, p := range setsRepsPatterns {
		m := p.re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		group := func(i int) int { return atoi(text[m[2*i]:m[2*i+1]]) }
		sr := SetsReps{Sets: 1, Reps: group(p.repsGroup)}
		if p.setsGroup > 0 {
			sr.Sets = group(p.setsGroup)
		}
		sr.Sets = min(max(sr.Sets, 1), maxSets)
		return sr, m[:2]
	}
	return SetsReps{}, nil
}

// ParseRestSeconds returns the rest interval in text, or 60 when none is given.
func ParseRestSeconds(text string) int {
	for _, p := range restPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return atoi(m[1]) * p.mult
		}
	}
	return models.DefaultRestSeconds
}

// stripLeadingMarker removes enumeration, bullet and emoji prefixes.
func stripLeadingMarker(line string) string {
	return strings.TrimSpace(leadingMarkerRe.ReplaceAllString(line, ""))
}

// CleanExerciseName strips list markers and trailing set/rep notation from a
// line, leaving just the movement name. If nothing is left, the trimmed input
// is returned unchanged.
func CleanExerciseName(line string) string {
	orig := strings.TrimSpace(line)
	name := stripLeadingMarker(orig)
	name = leadingHashRe.ReplaceAllString(name, "")
	name = trailingParenRe.ReplaceAllString(name, "")
	name = trailingDashNumRe.ReplaceAllString(name, "")
	name = trailingSetsRe.ReplaceAllString(name, "")
	name = trailingXRe.ReplaceAllString(name, "")
	name = trailingPunctRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return orig
	}
	return name
}

// ExtractEquipment returns a single equipment label for the whole text.
func ExtractEquipment(text string) string {
	if noEquipmentRe.MatchString(text) {
		return "none"
	}
	if m := weightedEquipmentRe.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1]) + "s"
	}
	lower := strings.ToLower(text)
	for _, e := range equipmentLabels {
		if strings.Contains(lower, e.needle) {
			return e.label
		}
	}
	return "none"
}

// DetermineDifficulty classifies text as beginner or advanced by keyword,
// defaulting to intermediate.
func DetermineDifficulty(text string) models.Difficulty {
	if beginnerRe.MatchString(text) {
		return models.Beginner
	}
	if advancedRe.MatchString(text) {
		return models.Advanced
	}
	return models.Intermediate
}
