package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repfeed/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertParsedWorkout stores w and its exercise rows in one transaction and
// returns the saved record.
func (db *DB) InsertParsedWorkout(ctx context.Context, w *models.ParsedWorkout) (*models.SavedWorkout, error) {
	doc, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshaling workout: %w", err)
	}

	id := uuid.New()
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}
	sourceURL := ""
	if w.Source != nil {
		sourceURL = w.Source.URL
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var createdAt time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO parsed_workouts (id, title, source_type, source_url, difficulty, equipment,
		 estimated_duration_minutes, tags, workout)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING created_at`,
		id, w.Title, w.SourceType, sourceURL, string(w.Difficulty), w.Equipment,
		w.EstimatedDurationMinutes, tags, doc,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting parsed workout: %w", err)
	}

	if rows := models.ExerciseRows(id, w); len(rows) > 0 {
		query, args := exerciseInsert(rows)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("inserting parsed exercises: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing workout: %w", err)
	}
	return &models.SavedWorkout{ID: id, CreatedAt: createdAt, Workout: *w}, nil
}

// exerciseInsert builds a multi-row insert for rows.
func exerciseInsert(rows []models.ParsedExerciseRow) (string, []any) {
	const cols = 8
	query := `INSERT INTO parsed_exercises (workout_id, position, name, set_count, reps, duration_seconds, rest_seconds, notes) VALUES `
	args := make([]any, 0, len(rows)*cols)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.WorkoutID, r.Position, r.Name, r.SetCount,
			r.Reps, r.DurationSeconds, r.RestSeconds, r.Notes)
	}
	return query + strings.Join(valueStrings, ","), args
}

// GetParsedWorkout returns one saved workout, or ErrNotFound.
func (db *DB) GetParsedWorkout(ctx context.Context, id uuid.UUID) (*models.SavedWorkout, error) {
	var (
		sw  models.SavedWorkout
		doc []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, created_at, workout FROM parsed_workouts WHERE id = $1`, id,
	).Scan(&sw.ID, &sw.CreatedAt, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying parsed workout %s: %w", id, err)
	}
	if err := json.Unmarshal(doc, &sw.Workout); err != nil {
		return nil, fmt.Errorf("decoding parsed workout %s: %w", id, err)
	}
	return &sw, nil
}

// ListParsedWorkouts returns the most recently saved workouts, optionally
// restricted to one source type.
func (db *DB) ListParsedWorkouts(ctx context.Context, sourceType string, limit int) ([]models.SavedWorkout, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, workout
		 FROM parsed_workouts
		 WHERE ($1 = '' OR source_type = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sourceType, limit)
	if err != nil {
		return nil, fmt.Errorf("querying parsed workouts: %w", err)
	}
	defer rows.Close()

	result := []models.SavedWorkout{}
	for rows.Next() {
		var (
			sw  models.SavedWorkout
			doc []byte
		)
		if err := rows.Scan(&sw.ID, &sw.CreatedAt, &doc); err != nil {
			return nil, fmt.Errorf("scanning parsed workout: %w", err)
		}
		if err := json.Unmarshal(doc, &sw.Workout); err != nil {
			return nil, fmt.Errorf("decoding parsed workout %s: %w", sw.ID, err)
		}
		result = append(result, sw)
	}
	return result, rows.Err()
}
