package parser

import (
	"reflect"
	"testing"

	"github.com/claude/repfeed/internal/models"
)

// TestExtractOverallDurationMinutes verifies the minutes > hours > clock
// priority, including the clock form being reported as M*60+S minutes.
func TestExtractOverallDurationMinutes(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"30 min full body", 30, true},
		{"Burn in 45 minutes", 45, true},
		{"1 hour session", 60, true},
		{"2 hrs of mobility", 120, true},
		{"Total time 1:30", 90, true},
		{"20 min, then 1 hour", 20, true},
		{"Squats and lunges", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractOverallDurationMinutes(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractOverallDurationMinutes(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

// TestParseTimeDurationSeconds verifies the seconds > clock > minutes order.
func TestParseTimeDurationSeconds(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"45 sec", 45, true},
		{"30s", 30, true},
		{"20 seconds", 20, true},
		{"1:30", 90, true},
		{"2 min", 120, true},
		{"3x10", 0, false},
		{"10 squats", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTimeDurationSeconds(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTimeDurationSeconds(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

// TestParseSetsAndReps covers every pattern in the cascade plus the set cap.
func TestParseSetsAndReps(t *testing.T) {
	tests := []struct {
		text   string
		want   SetsReps
		wantOK bool
	}{
		{"3x10", SetsReps{3, 10}, true},
		{"3 x 10", SetsReps{3, 10}, true},
		{"4 × 8", SetsReps{4, 8}, true},
		{"4 sets 8", SetsReps{4, 8}, true},
		{"3 sets of 12", SetsReps{3, 12}, true},
		{"12 reps x 3 sets", SetsReps{3, 12}, true},
		{"10-12 reps", SetsReps{1, 10}, true},
		{"20 reps", SetsReps{1, 20}, true},
		{"x10", SetsReps{1, 10}, true},
		{"100x10", SetsReps{maxSets, 10}, true},
		{"just words", SetsReps{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseSetsAndReps(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSetsAndReps(%q) = %+v, %v; want %+v, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

// TestParseRestSeconds verifies the rest patterns and the 60 second default.
func TestParseRestSeconds(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"rest: 30 sec", 30},
		{"3x10, rest 45s", 45},
		{"90 sec rest", 90},
		{"20 seconds of rest", 20},
		{"rest: 2 min", 120},
		{"3x10", models.DefaultRestSeconds},
	}
	for _, tt := range tests {
		if got := ParseRestSeconds(tt.text); got != tt.want {
			t.Errorf("ParseRestSeconds(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCleanExerciseName(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"1. Squats", "Squats"},
		{"2) Lunges", "Lunges"},
		{"• Push-ups (3x12)", "Push-ups"},
		{"Lunges - 12 each side", "Lunges"},
		{"Squats 3x10 slow", "Squats"},
		{"#1 Burpees", "Burpees"},
		{"Burpees x10", "Burpees"},
		{"💪 Deadlift", "Deadlift"},
		{"  Wall Sit  ", "Wall Sit"},
		{"3x10", "3x10"},
	}
	for _, tt := range tests {
		if got := CleanExerciseName(tt.line); got != tt.want {
			t.Errorf("CleanExerciseName(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

// TestExtractEquipment verifies the priority chain: no-equipment phrases win,
// then weighted notation, then the substring labels.
func TestExtractEquipment(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"No equipment needed, dumbbell optional", "none"},
		{"Bodyweight only", "none"},
		{"Grab a 2x5kg dumbbell", "dumbbells"},
		{"Dumbbell rows", "dumbbells"},
		{"Kettlebell swings", "kettlebell"},
		{"Loop a resistance band around your knees", "resistance bands"},
		{"Barbell back squat", "barbell"},
		{"Lift heavy weights", "weights"},
		{"Run outside", "none"},
	}
	for _, tt := range tests {
		if got := ExtractEquipment(tt.text); got != tt.want {
			t.Errorf("ExtractEquipment(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetermineDifficulty(t *testing.T) {
	tests := []struct {
		text string
		want models.Difficulty
	}{
		{"Beginner friendly flow", models.Beginner},
		{"Advanced HIIT", models.Advanced},
		{"Easy start, hard finish", models.Beginner},
		{"Leg day", models.Intermediate},
		{"Hardware store run", models.Intermediate},
	}
	for _, tt := range tests {
		if got := DetermineDifficulty(tt.text); got != tt.want {
			t.Errorf("DetermineDifficulty(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// TestExtractTags verifies keyword tables and hashtag normalization.
func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"hashtags and keyword", "#fullbody #nogym\nyoga flow", []string{"full body", "fullbody", "nogym", "yoga"}},
		{"camel case hashtag", "#FullBody", []string{"full body"}},
		{"short hashtag dropped", "#ab #abs", []string{"abs", "core"}},
		{"one difficulty tag", "beginner to advanced", []string{"beginner"}},
		{"word boundary", "backpack", []string{}},
		{"no tags", "Squats", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
