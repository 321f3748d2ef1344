package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/models"
)

// InsertCheckin records a daily recovery check-in. One row per user per
// date; re-submitting the same day replaces the earlier answers.
func (db *DB) InsertCheckin(ctx context.Context, c models.CheckinRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO recovery_checkins (id, user_id, date, sleep_quality, sleep_hours,
		 stress_level, soreness, energy, motivation, readiness_score, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			sleep_quality = EXCLUDED.sleep_quality,
			sleep_hours = EXCLUDED.sleep_hours,
			stress_level = EXCLUDED.stress_level,
			soreness = EXCLUDED.soreness,
			energy = EXCLUDED.energy,
			motivation = EXCLUDED.motivation,
			readiness_score = EXCLUDED.readiness_score,
			notes = EXCLUDED.notes`,
		c.ID, c.UserID, c.Date, c.SleepQuality, c.SleepHours,
		c.StressLevel, c.Soreness, c.Energy, c.Motivation, c.ReadinessScore, c.Notes)
	if err != nil {
		return fmt.Errorf("inserting checkin: %w", err)
	}
	return nil
}

// ListCheckins retrieves the most recent check-ins for a user, newest
// first. limit <= 0 returns all of them.
func (db *DB) ListCheckins(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckinRow, error) {
	query := `SELECT id, user_id, date, sleep_quality, sleep_hours, stress_level,
		soreness, energy, motivation, readiness_score, notes
		FROM recovery_checkins
		WHERE user_id = $1
		ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying checkins: %w", err)
	}
	defer rows.Close()

	var checkins []models.CheckinRow
	for rows.Next() {
		var c models.CheckinRow
		if err := rows.Scan(&c.ID, &c.UserID, &c.Date, &c.SleepQuality, &c.SleepHours,
			&c.StressLevel, &c.Soreness, &c.Energy, &c.Motivation, &c.ReadinessScore, &c.Notes); err != nil {
			return nil, fmt.Errorf("scanning checkin: %w", err)
		}
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}
