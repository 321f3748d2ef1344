package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// SavePlan stores a workout plan. Exercises are stored as a jsonb column
// since they are read and written as a unit.
func (db *DB) SavePlan(ctx context.Context, p workout.Plan) error {
	exercises, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("encoding plan exercises: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_plans (id, name, description, difficulty, focus, exercises, owner_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			difficulty = EXCLUDED.difficulty,
			focus = EXCLUDED.focus,
			exercises = EXCLUDED.exercises`,
		p.ID, p.Name, p.Description, p.Difficulty, p.Focus, exercises, p.OwnerID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a single plan visible to the user: a shared template or
// one of their own. Other users' plans come back ErrNotFound.
func (db *DB) GetPlan(ctx context.Context, id, userID uuid.UUID) (*workout.Plan, error) {
	var p workout.Plan
	var exercises []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, description, difficulty, focus, exercises, owner_id, created_at
		 FROM workout_plans
		 WHERE id = $1 AND (owner_id IS NULL OR owner_id = $2)`, id, userID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Difficulty, &p.Focus, &exercises, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	if err := json.Unmarshal(exercises, &p.Exercises); err != nil {
		return nil, fmt.Errorf("decoding plan exercises: %w", err)
	}
	return &p, nil
}

// ListPlans retrieves the plans visible to a user: shared templates plus
// the user's own custom plans.
func (db *DB) ListPlans(ctx context.Context, userID uuid.UUID) ([]workout.Plan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, difficulty, focus, exercises, owner_id, created_at
		 FROM workout_plans
		 WHERE owner_id IS NULL OR owner_id = $1
		 ORDER BY owner_id IS NULL DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []workout.Plan
	for rows.Next() {
		var p workout.Plan
		var exercises []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Difficulty, &p.Focus,
			&exercises, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		if err := json.Unmarshal(exercises, &p.Exercises); err != nil {
			return nil, fmt.Errorf("decoding plan exercises: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// DeletePlan removes a user-owned plan. Shared templates cannot be deleted
// through this path.
func (db *DB) DeletePlan(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_plans WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
