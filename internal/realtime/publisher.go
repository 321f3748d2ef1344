// Package realtime broadcasts live workout-progress events over a pub/sub
// channel. Delivery is fire-and-forget: no ordering, no acknowledgment, no
// redelivery. Consumers that drop a message catch up on the next one.
package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UpdateType enumerates the broadcast event kinds.
type UpdateType string

const (
	WorkoutStarted    UpdateType = "workout_started"
	WorkoutUpdated    UpdateType = "workout_updated"
	SetCompleted      UpdateType = "set_completed"
	ExerciseCompleted UpdateType = "exercise_completed"
	WorkoutCompleted  UpdateType = "workout_completed"
)

// WorkoutUpdate is the opaque JSON payload broadcast per event.
type WorkoutUpdate struct {
	Type             UpdateType     `json:"type"`
	WorkoutSessionID uuid.UUID      `json:"workout_session_id"`
	Data             map[string]any `json:"data,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Publisher is the outbound side of the channel. Implementations must treat
// publishing as best-effort; callers log errors and move on.
type Publisher interface {
	Publish(ctx context.Context, update WorkoutUpdate) error
	Close() error
}

// NoopPublisher drops every update. Used when realtime broadcast is
// disabled in config.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, update WorkoutUpdate) error { return nil }
func (NoopPublisher) Close() error                                            { return nil }
