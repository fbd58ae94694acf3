package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Parse log statuses.
const (
	ParseStatusSuccess = "success"
	ParseStatusError   = "error"
)

// ParseLog records the outcome of one parse request.
type ParseLog struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	SourceURL     string     `json:"sourceUrl"`
	RequestedBy   string     `json:"requestedBy"`
	ExerciseCount int        `json:"exerciseCount"`
	WorkoutID     *uuid.UUID `json:"workoutId"`
	DurationMs    *int       `json:"durationMs"`
	ErrorMessage  *string    `json:"errorMessage"`
}

// InsertParseLog creates a parse log entry and returns its ID.
func (db *DB) InsertParseLog(ctx context.Context, log ParseLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO parse_logs (source, status, source_url, requested_by, exercise_count, workout_id, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.Source, log.Status, log.SourceURL, log.RequestedBy, log.ExerciseCount, log.WorkoutID,
		log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting parse log: %w", err)
	}
	return id, nil
}

// QueryParseLogs returns the most recent parse logs.
func (db *DB) QueryParseLogs(ctx context.Context, limit int) ([]ParseLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, status, source_url, requested_by, exercise_count, workout_id, duration_ms, error_message
		 FROM parse_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying parse logs: %w", err)
	}
	defer rows.Close()

	result := []ParseLog{}
	for rows.Next() {
		var l ParseLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.Status, &l.SourceURL, &l.RequestedBy,
			&l.ExerciseCount, &l.WorkoutID, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning parse log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
