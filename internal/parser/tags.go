package parser

import (
	"regexp"
	"sort"
	"strings"
)

// keyword maps a set of trigger words to the tag they produce.
type keyword struct {
	re  *regexp.Regexp
	tag string
}

// kw builds a case-insensitive whole-word matcher. Spaces inside a trigger
// also match a hyphen or nothing, so "full body" covers "full-body" and
// "fullbody".
func kw(tag string, words ...string) keyword {
	alts := make([]string, len(words))
	for i, w := range words {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `[\s-]?`)
	}
	return keyword{
		re:  regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
		tag: tag,
	}
}

var workoutTypeKeywords = []keyword{
	kw("hiit", "hiit", "high intensity", "tabata"),
	kw("cardio", "cardio", "aerobic"),
	kw("strength", "strength", "strength training"),
	kw("yoga", "yoga"),
	kw("pilates", "pilates"),
	kw("stretching", "stretch", "stretching", "stretches"),
	kw("mobility", "mobility", "flexibility"),
	kw("circuit", "circuit", "circuits"),
	kw("crossfit", "crossfit", "wod"),
	kw("calisthenics", "calisthenics"),
	kw("amrap", "amrap"),
	kw("emom", "emom"),
	kw("running", "running", "run"),
	kw("boxing", "boxing", "kickboxing"),
	kw("powerlifting", "powerlifting"),
}

var bodyPartKeywords = []keyword{
	kw("full body", "full body", "total body"),
	kw("upper body", "upper body"),
	kw("lower body", "lower body"),
	kw("core", "core", "abs", "abdominal", "six pack"),
	kw("legs", "legs", "leg day", "quads", "hamstrings"),
	kw("glutes", "glutes", "glute", "booty"),
	kw("arms", "arms", "biceps", "triceps"),
	kw("chest", "chest", "pecs"),
	kw("back", "back", "lats"),
	kw("shoulders", "shoulders", "delts"),
}

var equipmentKeywords = []keyword{
	kw("dumbbells", "dumbbell", "dumbbells"),
	kw("kettlebell", "kettlebell", "kettlebells"),
	kw("resistance bands", "resistance band", "resistance bands", "booty band"),
	kw("barbell", "barbell"),
	kw("bodyweight", "bodyweight", "no equipment", "no weights"),
	kw("jump rope", "jump rope", "skipping rope"),
	kw("pull-up bar", "pull-up bar", "pullup bar"),
}

// difficultyKeywords contribute at most one tag; the first match wins.
var difficultyKeywords = []keyword{
	kw("beginner", "beginner", "beginners", "easy"),
	kw("intermediate", "intermediate"),
	kw("advanced", "advanced", "hard", "intense", "expert"),
}

var (
	hashtagRe   = regexp.MustCompile(`#(\w+)`)
	camelCaseRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ExtractTags collects keyword tags and hashtags from text. The result is
// deduplicated and sorted.
func ExtractTags(text string) []string {
	set := make(map[string]struct{})
	for _, table := range [][]keyword{workoutTypeKeywords, bodyPartKeywords, equipmentKeywords} {
		for _, k := range table {
			if k.re.MatchString(text) {
				set[k.tag] = struct{}{}
			}
		}
	}
	for _, k := range difficultyKeywords {
		if k.re.MatchString(text) {
			set[k.tag] = struct{}{}
			break
		}
	}
	for _, tag := range hashtags(text) {
		set[tag] = struct{}{}
	}
	return sortedTags(set)
}

// hashtags returns the normalized tag text of every #hashtag in text.
// CamelCase tags are split on case boundaries: "#FullBody" becomes "full body".
func hashtags(text string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(camelCaseRe.ReplaceAllString(m[1], "$1 $2"))
		if n := len(tag); n >= 3 && n < 30 {
			tags = append(tags, tag)
		}
	}
	return tags
}

func sortedTags(set map[string]struct{}) []string {
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// fallbackKeyword is a movement name and the other spellings that mean it.
type fallbackKeyword struct {
	name     string
	variants []string
}

// matches reports whether lower contains the name or any variant.
func (k fallbackKeyword) matches(lower string) bool {
	if strings.Contains(lower, k.name) {
		return true
	}
	for _, v := range k.variants {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// fallbackKeywords are common movement names searched for as plain
// substrings when no line produced an exercise.
var fallbackKeywords = []fallbackKeyword{
	{name: "squat"},
	{name: "push-up", variants: []string{"pushup", "push up"}},
	{name: "pull-up", variants: []string{"pullup", "pull up"}},
	{name: "deadlift", variants: []string{"dead lift"}},
	{name: "lunge"},
	{name: "plank"},
	{name: "burpee"},
	{name: "crunch"},
	{name: "sit-up", variants: []string{"situp", "sit up"}},
	{name: "bench press"},
	{name: "shoulder press"},
	{name: "bicep curl"},
	{name: "tricep dip"},
	{name: "mountain climber"},
	{name: "jumping jack"},
	{name: "leg raise"},
	{name: "glute bridge"},
	{name: "kettlebell swing"},
	{name: "russian twist"},
	{name: "box jump"},
}
