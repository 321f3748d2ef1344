package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ironcoach/ironcoach/internal/models"
)

// UpsertProfile creates or replaces a user's profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.ProfileRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, name, age, gender, height_cm, weight_kg, activity_level, fitness_level)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			fitness_level = EXCLUDED.fitness_level,
			updated_at = NOW()`,
		p.UserID, p.Name, p.Age, p.Gender, p.HeightCm, p.WeightKg, p.ActivityLevel, p.FitnessLevel)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's profile. Returns ErrNotFound when the user
// has not completed onboarding.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileRow, error) {
	var p models.ProfileRow
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, name, age, gender, height_cm, weight_kg, activity_level, fitness_level, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Name, &p.Age, &p.Gender, &p.HeightCm, &p.WeightKg,
		&p.ActivityLevel, &p.FitnessLevel, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertPreferences creates or replaces a user's workout preferences.
func (db *DB) UpsertPreferences(ctx context.Context, p models.PreferencesRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, workout_types, duration_minutes, time_of_day,
		 gym_access, available_equipment, coaching_frequency, motivation_style, dietary_restrictions)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id) DO UPDATE SET
			workout_types = EXCLUDED.workout_types,
			duration_minutes = EXCLUDED.duration_minutes,
			time_of_day = EXCLUDED.time_of_day,
			gym_access = EXCLUDED.gym_access,
			available_equipment = EXCLUDED.available_equipment,
			coaching_frequency = EXCLUDED.coaching_frequency,
			motivation_style = EXCLUDED.motivation_style,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			updated_at = NOW()`,
		p.UserID, p.WorkoutTypes, p.DurationMinutes, p.TimeOfDay, p.GymAccess,
		p.AvailableEquipment, p.CoachingFrequency, p.MotivationStyle, p.DietaryRestrictions)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

// GetPreferences retrieves a user's workout preferences.
func (db *DB) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.PreferencesRow, error) {
	var p models.PreferencesRow
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, workout_types, duration_minutes, time_of_day, gym_access,
		 available_equipment, coaching_frequency, motivation_style, dietary_restrictions, updated_at
		 FROM user_preferences WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.WorkoutTypes, &p.DurationMinutes, &p.TimeOfDay, &p.GymAccess,
		&p.AvailableEquipment, &p.CoachingFrequency, &p.MotivationStyle, &p.DietaryRestrictions, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	return &p, nil
}

// InsertGoal adds a fitness goal.
func (db *DB) InsertGoal(ctx context.Context, g models.GoalRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO fitness_goals (id, user_id, type, description, target, current, unit, deadline, priority, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		g.ID, g.UserID, g.Type, g.Description, g.Target, g.Current, g.Unit, g.Deadline, g.Priority, g.IsActive)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

// ListGoals retrieves a user's goals, active first, newest first within
// each group.
func (db *DB) ListGoals(ctx context.Context, userID uuid.UUID) ([]models.GoalRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, type, description, target, current, unit, deadline, priority, is_active, created_at
		 FROM fitness_goals
		 WHERE user_id = $1
		 ORDER BY is_active DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	var goals []models.GoalRow
	for rows.Next() {
		var g models.GoalRow
		if err := rows.Scan(&g.ID, &g.UserID, &g.Type, &g.Description, &g.Target, &g.Current,
			&g.Unit, &g.Deadline, &g.Priority, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ActiveGoalType returns the type of the user's highest-priority active
// goal, or "" when none is set. Nutrition targets key off this.
func (db *DB) ActiveGoalType(ctx context.Context, userID uuid.UUID) (string, error) {
	var goalType string
	err := db.Pool.QueryRow(ctx,
		`SELECT type FROM fitness_goals
		 WHERE user_id = $1 AND is_active
		 ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&goalType)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying active goal: %w", err)
	}
	return goalType, nil
}
