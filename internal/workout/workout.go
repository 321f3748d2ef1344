// Package workout holds the workout-execution domain: plans, in-session
// progress tracking, and finalized session records.
package workout

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session. Transitions only move forward:
// in_progress → completed or cancelled, never back.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Exercise is immutable reference data describing a movement.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	MuscleGroups []string `json:"muscle_groups"`
	Equipment    []string `json:"equipment"`
	Type         string   `json:"type"` // strength, cardio, flexibility, balance
	Difficulty   string   `json:"difficulty"`
}

// PlanExercise is one prescribed entry in a workout plan: an exercise plus
// its target sets, reps, and rest. Weight is nil for bodyweight work.
type PlanExercise struct {
	ExerciseID  string   `json:"exercise_id"`
	Name        string   `json:"name"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	RestSeconds int      `json:"rest_seconds"`
	Weight      *float64 `json:"weight,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Plan is an ordered prescription of exercises, either a shared template or
// a user-owned custom workout. Immutable once a session starts against it.
type Plan struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Difficulty  string         `json:"difficulty,omitempty"`
	Focus       []string       `json:"focus,omitempty"`
	Exercises   []PlanExercise `json:"exercises"`
	OwnerID     *uuid.UUID     `json:"owner_id,omitempty"` // nil for shared templates
	CreatedAt   time.Time      `json:"created_at"`
}

// ExerciseProgress is the live per-exercise state inside an active session.
type ExerciseProgress struct {
	ExerciseID    string `json:"exercise_id"`
	CompletedSets int    `json:"completed_sets"`
	Completed     bool   `json:"completed"`
}

// ExerciseLog is the finalized per-exercise record written when a session
// ends. ActualReps always has length SetsCompleted; each entry is the
// prescribed rep count, since per-set rep variation is not tracked.
type ExerciseLog struct {
	ExerciseID    string   `json:"exercise_id"`
	ExerciseName  string   `json:"exercise_name"`
	SetsCompleted int      `json:"sets_completed"`
	TargetSets    int      `json:"target_sets"`
	TargetReps    int      `json:"target_reps"`
	ActualReps    []int    `json:"actual_reps"`
	Weight        *float64 `json:"weight,omitempty"`
	RestSeconds   int      `json:"rest_seconds"`
	Notes         string   `json:"notes,omitempty"`
}

// Session is one instance of a user performing a workout. Totals are derived
// from the exercise logs and stay recomputable from them.
type Session struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	Name            string        `json:"name"`
	TemplateID      *uuid.UUID    `json:"template_id,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	TotalSets       int           `json:"total_sets"`
	TotalReps       int           `json:"total_reps"`
	TotalVolume     float64       `json:"total_volume"`
	Notes           string        `json:"notes,omitempty"`
	Status          Status        `json:"status"`
	Exercises       []ExerciseLog `json:"exercises"`
	CreatedAt       time.Time     `json:"created_at"`
}

// RecordType classifies a personal record.
type RecordType string

const (
	RecordMaxWeight RecordType = "max_weight"
	RecordMaxReps   RecordType = "max_reps"
	RecordMaxVolume RecordType = "max_volume"
)

// PersonalRecord is an append-only achievement entry. New records never
// overwrite prior ones; history is retained.
type PersonalRecord struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	ExerciseID   string     `json:"exercise_id"`
	ExerciseName string     `json:"exercise_name"`
	RecordType   RecordType `json:"record_type"`
	Value        float64    `json:"value"`
	Unit         string     `json:"unit"`
	AchievedAt   time.Time  `json:"achieved_at"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
