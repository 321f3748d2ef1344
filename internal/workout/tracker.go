package workout

import (
	"errors"
	"sync"
)

var (
	// ErrEmptyPlan is returned when a tracker is created without exercises.
	ErrEmptyPlan = errors.New("plan has no exercises")
	// ErrInvalidPrescription is returned for a plan entry with non-positive
	// sets or reps.
	ErrInvalidPrescription = errors.New("plan exercise has non-positive sets or reps")
	// ErrWorkoutDone is returned when mutating a tracker whose last set has
	// already been completed.
	ErrWorkoutDone = errors.New("workout already finished")
)

// Tracker advances through one session's exercises and sets. It is strictly
// forward-progressing: no operation decrements completed sets or moves the
// exercise index backward. Safe for use from the session manager goroutine
// and the ticker goroutine concurrently.
type Tracker struct {
	mu sync.Mutex

	exercises []PlanExercise
	progress  []ExerciseProgress

	currentExercise int
	currentSet      int
	resting         bool
	restRemaining   int
	done            bool
}

// TrackerState is a point-in-time snapshot of a tracker, shaped for the API
// and realtime broadcast.
type TrackerState struct {
	CurrentExerciseIndex int                `json:"current_exercise_index"`
	CurrentExerciseID    string             `json:"current_exercise_id"`
	CurrentSet           int                `json:"current_set"`
	Resting              bool               `json:"resting"`
	RestSecondsRemaining int                `json:"rest_seconds_remaining"`
	Progress             []ExerciseProgress `json:"progress"`
	CompletedSets        int                `json:"completed_sets"`
	TotalSets            int                `json:"total_sets"`
	ProgressPercent      float64            `json:"progress_percent"`
	Done                 bool               `json:"done"`
}

// SetResult reports what a CompleteSet call changed.
type SetResult struct {
	ExerciseID        string
	ExerciseCompleted bool
	WorkoutCompleted  bool
	RestSeconds       int // 0 when no rest period was started
}

// NewTracker validates the plan entries and starts at the first set of the
// first exercise.
func NewTracker(exercises []PlanExercise) (*Tracker, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyPlan
	}
	progress := make([]ExerciseProgress, len(exercises))
	for i, ex := range exercises {
		if ex.Sets < 1 || ex.Reps < 1 {
			return nil, ErrInvalidPrescription
		}
		progress[i] = ExerciseProgress{ExerciseID: ex.ExerciseID}
	}
	return &Tracker{
		exercises:  exercises,
		progress:   progress,
		currentSet: 1,
	}, nil
}

// CompleteSet records one finished set for the current exercise. Hitting the
// exercise's target marks it completed and advances to the next exercise (or
// finishes the workout); otherwise the set counter advances. A rest period
// starts using the just-completed exercise's configured rest value, except
// after the final set of the workout. Completing a set during a rest period
// implicitly ends that rest.
func (t *Tracker) CompleteSet() (SetResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return SetResult{}, ErrWorkoutDone
	}

	ex := t.exercises[t.currentExercise]
	p := &t.progress[t.currentExercise]
	p.CompletedSets++

	res := SetResult{ExerciseID: ex.ExerciseID}

	if p.CompletedSets == ex.Sets {
		p.Completed = true
		res.ExerciseCompleted = true

		if t.currentExercise == len(t.exercises)-1 {
			t.done = true
			t.resting = false
			t.restRemaining = 0
			res.WorkoutCompleted = true
			return res, nil
		}

		t.currentExercise++
		t.currentSet = 1
	} else {
		t.currentSet++
	}

	t.resting = true
	t.restRemaining = ex.RestSeconds
	res.RestSeconds = ex.RestSeconds
	return res, nil
}

// SkipRest cancels any active rest period. Set and exercise state are
// untouched.
func (t *Tracker) SkipRest() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resting = false
	t.restRemaining = 0
}

// Tick advances the rest countdown by one second. It reports whether the
// tracker is still resting afterwards, so the caller can stop ticking.
func (t *Tracker) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.resting {
		return false
	}
	t.restRemaining--
	if t.restRemaining <= 0 {
		t.resting = false
		t.restRemaining = 0
	}
	return t.resting
}

// Done reports whether every set of every exercise has been completed.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Progress returns a copy of the per-exercise progress.
func (t *Tracker) Progress() []ExerciseProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ExerciseProgress, len(t.progress))
	copy(out, t.progress)
	return out
}

// State returns a snapshot of the tracker.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	progress := make([]ExerciseProgress, len(t.progress))
	copy(progress, t.progress)

	var total, completed int
	for i, ex := range t.exercises {
		total += ex.Sets
		completed += t.progress[i].CompletedSets
	}
	var pct float64
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	return TrackerState{
		CurrentExerciseIndex: t.currentExercise,
		CurrentExerciseID:    t.exercises[t.currentExercise].ExerciseID,
		CurrentSet:           t.currentSet,
		Resting:              t.resting,
		RestSecondsRemaining: t.restRemaining,
		Progress:             progress,
		CompletedSets:        completed,
		TotalSets:            total,
		ProgressPercent:      pct,
		Done:                 t.done,
	}
}
