package workout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/metrics"
)

// BuildLogs turns final per-exercise progress into exercise logs, one per
// planned exercise. ActualReps is a uniform array of the prescribed rep
// count with length equal to the completed set count.
func BuildLogs(exercises []PlanExercise, progress []ExerciseProgress) []ExerciseLog {
	byID := make(map[string]ExerciseProgress, len(progress))
	for _, p := range progress {
		byID[p.ExerciseID] = p
	}

	logs := make([]ExerciseLog, 0, len(exercises))
	for _, ex := range exercises {
		completed := byID[ex.ExerciseID].CompletedSets
		actualReps := make([]int, completed)
		for i := range actualReps {
			actualReps[i] = ex.Reps
		}
		logs = append(logs, ExerciseLog{
			ExerciseID:    ex.ExerciseID,
			ExerciseName:  ex.Name,
			SetsCompleted: completed,
			TargetSets:    ex.Sets,
			TargetReps:    ex.Reps,
			ActualReps:    actualReps,
			Weight:        ex.Weight,
			RestSeconds:   ex.RestSeconds,
			Notes:         ex.Notes,
		})
	}
	return logs
}

// Totals recomputes session aggregates from exercise logs. Weighted entries
// contribute weight × reps × sets to volume; bodyweight entries contribute
// their reps alone.
func Totals(logs []ExerciseLog) (totalSets, totalReps int, totalVolume float64) {
	for _, l := range logs {
		totalSets += l.SetsCompleted
		totalReps += l.SetsCompleted * l.TargetReps
		if l.Weight != nil {
			totalVolume += metrics.Volume(*l.Weight, l.TargetReps, l.SetsCompleted)
		} else {
			totalVolume += float64(l.SetsCompleted * l.TargetReps)
		}
	}
	return totalSets, totalReps, totalVolume
}

// Finalize assembles the completed session record from a plan and the
// tracker's final progress.
func Finalize(userID uuid.UUID, plan Plan, progress []ExerciseProgress, startedAt, completedAt time.Time) Session {
	logs := BuildLogs(plan.Exercises, progress)
	totalSets, totalReps, totalVolume := Totals(logs)

	duration := int(completedAt.Sub(startedAt).Minutes())
	var templateID *uuid.UUID
	if plan.OwnerID == nil {
		id := plan.ID
		templateID = &id
	}

	return Session{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            plan.Name,
		TemplateID:      templateID,
		StartedAt:       startedAt,
		CompletedAt:     &completedAt,
		DurationMinutes: duration,
		TotalSets:       totalSets,
		TotalReps:       totalReps,
		TotalVolume:     totalVolume,
		Notes:           fmt.Sprintf("Completed %d sets in %d minutes", totalSets, duration),
		Status:          StatusCompleted,
		Exercises:       logs,
		CreatedAt:       completedAt,
	}
}

// PriorBests indexes a user's best record values by exercise and record type.
type PriorBests map[string]map[RecordType]float64

// Best returns the stored best for an exercise/type pair, or 0.
func (b PriorBests) Best(exerciseID string, rt RecordType) float64 {
	return b[exerciseID][rt]
}

// DetectRecords compares a finalized session against prior bests and returns
// the new personal records it produced. Records are append-only; callers
// persist these without touching history. Exercises with no completed sets
// are skipped.
func DetectRecords(userID uuid.UUID, logs []ExerciseLog, prior PriorBests, achievedAt time.Time) []PersonalRecord {
	var records []PersonalRecord

	add := func(l ExerciseLog, rt RecordType, value float64, unit string) {
		records = append(records, PersonalRecord{
			ID:           uuid.New(),
			UserID:       userID,
			ExerciseID:   l.ExerciseID,
			ExerciseName: l.ExerciseName,
			RecordType:   rt,
			Value:        value,
			Unit:         unit,
			AchievedAt:   achievedAt,
			CreatedAt:    achievedAt,
		})
	}

	for _, l := range logs {
		if l.SetsCompleted == 0 {
			continue
		}

		if l.Weight != nil {
			if *l.Weight > prior.Best(l.ExerciseID, RecordMaxWeight) {
				add(l, RecordMaxWeight, *l.Weight, "kg")
			}
			volume := metrics.Volume(*l.Weight, l.TargetReps, l.SetsCompleted)
			if volume > prior.Best(l.ExerciseID, RecordMaxVolume) {
				add(l, RecordMaxVolume, volume, "kg*reps")
			}
		} else {
			reps := l.SetsCompleted * l.TargetReps
			if float64(reps) > prior.Best(l.ExerciseID, RecordMaxReps) {
				add(l, RecordMaxReps, float64(reps), "reps")
			}
		}
	}
	return records
}
