package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TrainingStats holds aggregate statistics about a user's completed training.
type TrainingStats struct {
	TotalWorkouts   int64          `json:"total_workouts"`
	TotalSets       int64          `json:"total_sets"`
	TotalReps       int64          `json:"total_reps"`
	TotalVolume     float64        `json:"total_volume"`
	TotalMinutes    int64          `json:"total_minutes"`
	FirstWorkout    *time.Time     `json:"first_workout"`
	LastWorkout     *time.Time     `json:"last_workout"`
	WeeklyVolume    []WeeklyVolume `json:"weekly_volume"`
	ExerciseSummary []ExerciseStat `json:"exercise_summary"`
}

// WeeklyVolume is the total training volume for one ISO week.
type WeeklyVolume struct {
	WeekStart time.Time `json:"week_start"`
	Workouts  int64     `json:"workouts"`
	Volume    float64   `json:"volume"`
}

// ExerciseStat holds per-exercise summary stats.
type ExerciseStat struct {
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	Sessions     int64    `json:"sessions"`
	TotalSets    int64    `json:"total_sets"`
	MaxWeight    *float64 `json:"max_weight,omitempty"`
}

// GetTrainingStats returns aggregate training statistics for a user's
// completed sessions.
func (db *DB) GetTrainingStats(ctx context.Context, userID uuid.UUID) (*TrainingStats, error) {
	stats := &TrainingStats{}

	// Session totals and date range
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_sets), 0), COALESCE(SUM(total_reps), 0),
			COALESCE(SUM(total_volume), 0), COALESCE(SUM(duration_minutes), 0),
			MIN(completed_at), MAX(completed_at)
		 FROM workout_sessions
		 WHERE user_id = $1 AND status = 'completed'`, userID,
	).Scan(&stats.TotalWorkouts, &stats.TotalSets, &stats.TotalReps,
		&stats.TotalVolume, &stats.TotalMinutes, &stats.FirstWorkout, &stats.LastWorkout)
	if err != nil {
		return nil, fmt.Errorf("querying session totals: %w", err)
	}

	// Weekly volume, most recent 12 weeks
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc('week', completed_at) AS week, COUNT(*), COALESCE(SUM(total_volume), 0)
		 FROM workout_sessions
		 WHERE user_id = $1 AND status = 'completed'
		 GROUP BY week
		 ORDER BY week DESC
		 LIMIT 12`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying weekly volume: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w WeeklyVolume
		if err := rows.Scan(&w.WeekStart, &w.Workouts, &w.Volume); err != nil {
			return nil, fmt.Errorf("scanning weekly volume: %w", err)
		}
		stats.WeeklyVolume = append(stats.WeeklyVolume, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Per-exercise summary
	exRows, err := db.Pool.Query(ctx,
		`SELECT l.exercise_id, l.exercise_name, COUNT(DISTINCT l.workout_session_id),
			COALESCE(SUM(l.sets_completed), 0), MAX(l.weight)
		 FROM exercise_logs l
		 JOIN workout_sessions s ON s.id = l.workout_session_id
		 WHERE l.user_id = $1 AND s.status = 'completed'
		 GROUP BY l.exercise_id, l.exercise_name
		 ORDER BY COUNT(DISTINCT l.workout_session_id) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise summary: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var s ExerciseStat
		if err := exRows.Scan(&s.ExerciseID, &s.ExerciseName, &s.Sessions, &s.TotalSets, &s.MaxWeight); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.ExerciseSummary = append(stats.ExerciseSummary, s)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
