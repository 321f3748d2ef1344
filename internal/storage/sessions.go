package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// SaveSession inserts a finalized session and its exercise logs in one
// transaction and returns the stored domain session.
func (db *DB) SaveSession(ctx context.Context, s workout.Session) (*workout.Session, error) {
	row, logRows := models.SessionToRows(s)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, workout_name, workout_template_id,
		 started_at, completed_at, duration_minutes, total_sets, total_reps, total_volume,
		 notes, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO NOTHING`,
		row.ID, row.UserID, row.WorkoutName, row.TemplateID,
		row.StartedAt, row.CompletedAt, row.DurationMinutes, row.TotalSets, row.TotalReps,
		row.TotalVolume, row.Notes, row.Status, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting workout session: %w", err)
	}

	if len(logRows) > 0 {
		query := `INSERT INTO exercise_logs (workout_session_id, user_id, exercise_id, exercise_name,
			sets_completed, target_sets, target_reps, actual_reps, weight, rest_seconds, notes, position) VALUES `
		args := make([]any, 0, len(logRows)*12)
		valueStrings := make([]string, 0, len(logRows))

		for i, l := range logRows {
			base := i * 12
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
				base+7, base+8, base+9, base+10, base+11, base+12,
			))
			args = append(args, l.SessionID, l.UserID, l.ExerciseID, l.ExerciseName,
				l.SetsCompleted, l.TargetSets, l.TargetReps, l.ActualReps,
				l.Weight, l.RestSeconds, l.Notes, l.Position)
		}

		query += strings.Join(valueStrings, ",")
		// Retried saves (outbox drain) must not trip the unique constraint.
		query += " ON CONFLICT (workout_session_id, position) DO NOTHING"
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("inserting exercise logs: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing session: %w", err)
	}

	saved := models.RowsToSession(row, logRows)
	return &saved, nil
}

// ListSessionsByUser retrieves a user's completed sessions with their
// exercise logs, newest first. limit <= 0 means no limit.
func (db *DB) ListSessionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]workout.Session, error) {
	query := `SELECT id, user_id, workout_name, workout_template_id, started_at, completed_at,
		 duration_minutes, total_sets, total_reps, total_volume, notes, status, created_at
		 FROM workout_sessions
		 WHERE user_id = $1 AND status = 'completed'
		 ORDER BY completed_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workout sessions: %w", err)
	}
	defer rows.Close()

	var sessionRows []models.SessionRow
	for rows.Next() {
		var r models.SessionRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.WorkoutName, &r.TemplateID, &r.StartedAt,
			&r.CompletedAt, &r.DurationMinutes, &r.TotalSets, &r.TotalReps, &r.TotalVolume,
			&r.Notes, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout session: %w", err)
		}
		sessionRows = append(sessionRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]workout.Session, 0, len(sessionRows))
	for _, r := range sessionRows {
		logs, err := db.exerciseLogs(ctx, r.ID, r.UserID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, models.RowsToSession(r, logs))
	}
	return sessions, nil
}

// GetSession retrieves a single session with its logs.
func (db *DB) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*workout.Session, error) {
	var r models.SessionRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, workout_name, workout_template_id, started_at, completed_at,
		 duration_minutes, total_sets, total_reps, total_volume, notes, status, created_at
		 FROM workout_sessions
		 WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&r.ID, &r.UserID, &r.WorkoutName, &r.TemplateID, &r.StartedAt, &r.CompletedAt,
		&r.DurationMinutes, &r.TotalSets, &r.TotalReps, &r.TotalVolume, &r.Notes, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying workout session: %w", err)
	}

	logs, err := db.exerciseLogs(ctx, r.ID, r.UserID)
	if err != nil {
		return nil, err
	}
	s := models.RowsToSession(r, logs)
	return &s, nil
}

func (db *DB) exerciseLogs(ctx context.Context, sessionID, userID uuid.UUID) ([]models.ExerciseLogRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT workout_session_id, user_id, exercise_id, exercise_name, sets_completed,
		 target_sets, target_reps, actual_reps, weight, rest_seconds, notes, position
		 FROM exercise_logs
		 WHERE workout_session_id = $1 AND user_id = $2
		 ORDER BY position ASC`,
		sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ExerciseLogRow
	for rows.Next() {
		var l models.ExerciseLogRow
		if err := rows.Scan(&l.SessionID, &l.UserID, &l.ExerciseID, &l.ExerciseName,
			&l.SetsCompleted, &l.TargetSets, &l.TargetReps, &l.ActualReps,
			&l.Weight, &l.RestSeconds, &l.Notes, &l.Position); err != nil {
			return nil, fmt.Errorf("scanning exercise log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountSessionsSince counts a user's completed sessions on or after the
// cutoff. The coach scheduler uses this to detect missed workouts.
func (db *DB) CountSessionsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sessions
		 WHERE user_id = $1 AND status = 'completed' AND completed_at >= $2`,
		userID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}
