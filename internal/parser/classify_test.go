package parser

import "testing"

// TestParseSectionHeader verifies glyph-led headers with and without timing.
func TestParseSectionHeader(t *testing.T) {
	tests := []struct {
		line       string
		wantName   string
		wantTiming sectionTiming
		wantOK     bool
	}{
		{"▶ Warm Up", "Warm Up", sectionTiming{}, true},
		{"▶ Cardio Circuit (40 sec on, 20 sec off)", "Cardio Circuit", sectionTiming{Work: 40, Rest: 20}, true},
		{"➡ Finisher - 30 sec on", "Finisher", sectionTiming{Work: 30}, true},
		{"▶ Legs:", "Legs", sectionTiming{}, true},
		{"▶ Round 2", "Round 2", sectionTiming{}, true},
		{"▶ Jumping Jacks", "", sectionTiming{}, false},
		{"• Warm Up (30 sec on, 10 sec off)", "Warm Up", sectionTiming{Work: 30, Rest: 10}, true},
		{"• Cardio Circuit - 40 sec on, 20 sec off", "Cardio Circuit", sectionTiming{Work: 40, Rest: 20}, true},
		{"- Finisher (20 sec on)", "Finisher", sectionTiming{Work: 20}, true},
		{"• Warm Up:", "Warm Up", sectionTiming{}, true},
		{"• Jumping Jacks", "", sectionTiming{}, false},
		{"• Core", "", sectionTiming{}, false},
		{"• Squats:", "", sectionTiming{}, false},
		{"• Workout:", "", sectionTiming{}, false},
		{"Warm Up", "", sectionTiming{}, false},
		{"Squats: 3x10", "", sectionTiming{}, false},
	}
	for _, tt := range tests {
		name, timing, ok := parseSectionHeader(tt.line)
		if ok != tt.wantOK || name != tt.wantName || timing != tt.wantTiming {
			t.Errorf("parseSectionHeader(%q) = %q, %+v, %v; want %q, %+v, %v",
				tt.line, name, timing, ok, tt.wantName, tt.wantTiming, tt.wantOK)
		}
	}
}

// TestIsNoise verifies each rule of the noise cascade, and that ordinary
// exercise lines survive it.
func TestIsNoise(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"• Equipment: dumbbells", true},
		{"- Duration: 30 min", true},
		{"Subscribe to my channel for more!", true},
		{"Follow @coachsam", true},
		{"Like and share if you enjoyed", true},
		{"example.com/plans", true},
		{"coach@example.org", true},
		{"Music: Lofi Beats", true},
		{"© 2024 Sam Fitness", true},
		{"My favourite set-up: mat and bands", true},
		{"Wearing my new leggings", true},
		{"Use code SAM10 at checkout", true},
		{"LOWER BODY BURN", true},
		{"#fitness #gym", true},
		{"#fullbody #nogym yoga flow", true},
		{"#legday Squats 3x10", false},
		{"Disclaimer: consult your doctor first", true},
		{"This video is sponsored by nobody", true},
		{"Rest 60 sec between rounds", true},
		{"12", true},
		{"ok", true},
		{"---", true},
		{"Squats: 3x10", false},
		{"Push-ups: 3 sets of 12", false},
		{"Burpees x10", false},
		{"Jumping Jacks", false},
		{"HIIT 20", false},
	}
	for _, tt := range tests {
		if got := isNoise(tt.line); got != tt.want {
			t.Errorf("isNoise(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"▶ Warm Up", lineSection},
		{"• Cardio Circuit - 40 sec on, 20 sec off", lineSection},
		{"• Jumping Jacks", lineCandidate},
		{"Subscribe for more", lineNoise},
		{"Squats: 3x10", lineCandidate},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}
