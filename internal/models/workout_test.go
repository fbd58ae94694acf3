package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func validWorkout() ParsedWorkout {
	return ParsedWorkout{
		Title:      "Leg Day Workout",
		Difficulty: Intermediate,
		Tags:       []string{"legs", "strength"},
		Exercises: []Exercise{
			{Name: "Squats", Order: 0, Sets: []ExerciseSet{{Reps: 10, RestSeconds: 60}, {Reps: 10, RestSeconds: 60}}},
			{Name: "Plank", Order: 1, Sets: []ExerciseSet{{DurationSeconds: 45, RestSeconds: 15}}},
		},
		SourceType: SourceCustom,
	}
}

// TestValidate verifies each structural invariant is enforced.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *ParsedWorkout)
		wantErr string
	}{
		{"valid", func(w *ParsedWorkout) {}, ""},
		{"empty exercises", func(w *ParsedWorkout) { w.Exercises = nil }, ""},
		{"no title", func(w *ParsedWorkout) { w.Title = "" }, "title"},
		{"bad difficulty", func(w *ParsedWorkout) { w.Difficulty = "expert" }, "difficulty"},
		{"duplicate tag", func(w *ParsedWorkout) { w.Tags = []string{"legs", "legs"} }, "duplicate tag"},
		{"empty name", func(w *ParsedWorkout) { w.Exercises[0].Name = "" }, "name is required"},
		{"no sets", func(w *ParsedWorkout) { w.Exercises[1].Sets = nil }, "at least one set"},
		{"gap in order", func(w *ParsedWorkout) { w.Exercises[1].Order = 2 }, "order = 2"},
		{"negative rest", func(w *ParsedWorkout) { w.Exercises[0].Sets[1].RestSeconds = -1 }, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWorkout()
			tt.mutate(&w)
			err := w.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestDifficultyValid verifies the three known levels.
func TestDifficultyValid(t *testing.T) {
	for _, d := range []Difficulty{Beginner, Intermediate, Advanced} {
		if !d.Valid() {
			t.Errorf("%q.Valid() = false, want true", d)
		}
	}
	if Difficulty("").Valid() {
		t.Error(`"".Valid() = true, want false`)
	}
}

// TestExerciseRows verifies rows take their numbers from the first set.
func TestExerciseRows(t *testing.T) {
	id := uuid.New()
	w := validWorkout()
	w.Exercises = append(w.Exercises, Exercise{Name: "Stretch", Order: 2})

	rows := ExerciseRows(id, &w)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].WorkoutID != id || rows[0].SetCount != 2 || rows[0].Reps != 10 || rows[0].RestSeconds != 60 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Position != 1 || rows[1].DurationSeconds != 45 || rows[1].Reps != 0 {
		t.Errorf("rows[1] = %+v", rows[1])
	}
	if rows[2].SetCount != 0 || rows[2].Reps != 0 {
		t.Errorf("rows[2] = %+v, want zero numbers", rows[2])
	}
}

// TestParsedWorkoutJSON verifies the camelCase wire names and that a nil
// duration is omitted.
func TestParsedWorkoutJSON(t *testing.T) {
	w := validWorkout()
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, key := range []string{`"sourceType":"custom"`, `"restSeconds":60`, `"durationSeconds":45`} {
		if !strings.Contains(s, key) {
			t.Errorf("JSON missing %s: %s", key, s)
		}
	}
	if strings.Contains(s, "estimatedDurationMinutes") || strings.Contains(s, `"source"`) {
		t.Errorf("JSON should omit nil duration and source: %s", s)
	}
}
