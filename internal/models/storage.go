package models

import "github.com/google/uuid"

// ParsedExerciseRow is a row ready for insertion into the parsed_exercises
// table. Reps, duration and rest come from the first set; the full set list
// lives in the workout's JSON document.
type ParsedExerciseRow struct {
	WorkoutID       uuid.UUID
	Position        int
	Name            string
	SetCount        int
	Reps            int
	DurationSeconds int
	RestSeconds     int
	Notes           string
}

// ExerciseRows flattens w's exercises into rows for workoutID.
func ExerciseRows(workoutID uuid.UUID, w *ParsedWorkout) []ParsedExerciseRow {
	rows := make([]ParsedExerciseRow, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		row := ParsedExerciseRow{
			WorkoutID: workoutID,
			Position:  ex.Order,
			Name:      ex.Name,
			SetCount:  len(ex.Sets),
			Notes:     ex.Notes,
		}
		if len(ex.Sets) > 0 {
			row.Reps = ex.Sets[0].Reps
			row.DurationSeconds = ex.Sets[0].DurationSeconds
			row.RestSeconds = ex.Sets[0].RestSeconds
		}
		rows = append(rows, row)
	}
	return rows
}
