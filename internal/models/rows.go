// Package models holds the row shapes the storage layer reads and writes,
// and the translation between them and the workout domain types. Translation
// is pure data-shaping; no business rules live here.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// SessionRow is a row of the workout_sessions table.
type SessionRow struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	WorkoutName     string     `json:"workout_name"`
	TemplateID      *uuid.UUID `json:"workout_template_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalSets       int        `json:"total_sets"`
	TotalReps       int        `json:"total_reps"`
	TotalVolume     float64    `json:"total_volume"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ExerciseLogRow is a row of the exercise_logs table. ActualReps maps to an
// integer array column.
type ExerciseLogRow struct {
	SessionID     uuid.UUID `json:"workout_session_id"`
	UserID        uuid.UUID `json:"user_id"`
	ExerciseID    string    `json:"exercise_id"`
	ExerciseName  string    `json:"exercise_name"`
	SetsCompleted int       `json:"sets_completed"`
	TargetSets    int       `json:"target_sets"`
	TargetReps    int       `json:"target_reps"`
	ActualReps    []int32   `json:"actual_reps"`
	Weight        *float64  `json:"weight,omitempty"`
	RestSeconds   int       `json:"rest_seconds"`
	Notes         *string   `json:"notes,omitempty"`
	Position      int       `json:"position"`
}

// RecordRow is a row of the personal_records table.
type RecordRow struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ExerciseID   string    `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	RecordType   string    `json:"record_type"`
	Value        float64   `json:"value"`
	Unit         string    `json:"unit"`
	AchievedAt   time.Time `json:"achieved_at"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileRow is a row of the user_profiles table.
type ProfileRow struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          *string   `json:"name,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	HeightCm      *float64  `json:"height,omitempty"`
	WeightKg      *float64  `json:"weight,omitempty"`
	ActivityLevel *string   `json:"activity_level,omitempty"`
	FitnessLevel  *string   `json:"fitness_level,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PreferencesRow is a row of the user_preferences table.
type PreferencesRow struct {
	UserID              uuid.UUID `json:"user_id"`
	WorkoutTypes        []string  `json:"workout_types"`
	DurationMinutes     *int      `json:"duration,omitempty"`
	TimeOfDay           *string   `json:"time_of_day,omitempty"`
	GymAccess           *bool     `json:"gym_access,omitempty"`
	AvailableEquipment  []string  `json:"available_equipment"`
	CoachingFrequency   *string   `json:"coaching_frequency,omitempty"`
	MotivationStyle     *string   `json:"motivation_style,omitempty"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GoalRow is a row of the fitness_goals table.
type GoalRow struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Target      *float64   `json:"target,omitempty"`
	Current     *float64   `json:"current,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Priority    string     `json:"priority"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CheckinRow is a row of the recovery_checkins table.
type CheckinRow struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Date           time.Time `json:"date"`
	SleepQuality   float64   `json:"sleep_quality"`
	SleepHours     float64   `json:"sleep_hours"`
	StressLevel    float64   `json:"stress_level"`
	Soreness       float64   `json:"soreness"`
	Energy         float64   `json:"energy"`
	Motivation     float64   `json:"motivation"`
	ReadinessScore int       `json:"readiness_score"`
	Notes          *string   `json:"notes,omitempty"`
}

// SessionToRows flattens a finalized session into its session row and one
// log row per exercise, ordered by plan position.
func SessionToRows(s workout.Session) (SessionRow, []ExerciseLogRow) {
	row := SessionRow{
		ID:              s.ID,
		UserID:          s.UserID,
		WorkoutName:     s.Name,
		TemplateID:      s.TemplateID,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		DurationMinutes: s.DurationMinutes,
		TotalSets:       s.TotalSets,
		TotalReps:       s.TotalReps,
		TotalVolume:     s.TotalVolume,
		Notes:           optString(s.Notes),
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
	}

	logs := make([]ExerciseLogRow, 0, len(s.Exercises))
	for i, l := range s.Exercises {
		actual := make([]int32, len(l.ActualReps))
		for j, r := range l.ActualReps {
			actual[j] = int32(r)
		}
		logs = append(logs, ExerciseLogRow{
			SessionID:     s.ID,
			UserID:        s.UserID,
			ExerciseID:    l.ExerciseID,
			ExerciseName:  l.ExerciseName,
			SetsCompleted: l.SetsCompleted,
			TargetSets:    l.TargetSets,
			TargetReps:    l.TargetReps,
			ActualReps:    actual,
			Weight:        l.Weight,
			RestSeconds:   l.RestSeconds,
			Notes:         optString(l.Notes),
			Position:      i,
		})
	}
	return row, logs
}

// RowsToSession rebuilds the domain session from its rows.
func RowsToSession(row SessionRow, logs []ExerciseLogRow) workout.Session {
	exercises := make([]workout.ExerciseLog, 0, len(logs))
	for _, l := range logs {
		actual := make([]int, len(l.ActualReps))
		for j, r := range l.ActualReps {
			actual[j] = int(r)
		}
		exercises = append(exercises, workout.ExerciseLog{
			ExerciseID:    l.ExerciseID,
			ExerciseName:  l.ExerciseName,
			SetsCompleted: l.SetsCompleted,
			TargetSets:    l.TargetSets,
			TargetReps:    l.TargetReps,
			ActualReps:    actual,
			Weight:        l.Weight,
			RestSeconds:   l.RestSeconds,
			Notes:         strOr(l.Notes),
		})
	}

	return workout.Session{
		ID:              row.ID,
		UserID:          row.UserID,
		Name:            row.WorkoutName,
		TemplateID:      row.TemplateID,
		StartedAt:       row.StartedAt,
		CompletedAt:     row.CompletedAt,
		DurationMinutes: row.DurationMinutes,
		TotalSets:       row.TotalSets,
		TotalReps:       row.TotalReps,
		TotalVolume:     row.TotalVolume,
		Notes:           strOr(row.Notes),
		Status:          workout.Status(row.Status),
		Exercises:       exercises,
		CreatedAt:       row.CreatedAt,
	}
}

// RecordToRow maps a personal record to its table row.
func RecordToRow(r workout.PersonalRecord) RecordRow {
	return RecordRow{
		ID:           r.ID,
		UserID:       r.UserID,
		ExerciseID:   r.ExerciseID,
		ExerciseName: r.ExerciseName,
		RecordType:   string(r.RecordType),
		Value:        r.Value,
		Unit:         r.Unit,
		AchievedAt:   r.AchievedAt,
		Notes:        optString(r.Notes),
		CreatedAt:    r.CreatedAt,
	}
}

// RowToRecord maps a personal_records row back to the domain type.
func RowToRecord(r RecordRow) workout.PersonalRecord {
	return workout.PersonalRecord{
		ID:           r.ID,
		UserID:       r.UserID,
		ExerciseID:   r.ExerciseID,
		ExerciseName: r.ExerciseName,
		RecordType:   workout.RecordType(r.RecordType),
		Value:        r.Value,
		Unit:         r.Unit,
		AchievedAt:   r.AchievedAt,
		Notes:        strOr(r.Notes),
		CreatedAt:    r.CreatedAt,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
