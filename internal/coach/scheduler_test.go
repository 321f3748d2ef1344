package coach

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	users    []uuid.UUID
	sessions map[uuid.UUID]int
	inserted []Message
}

func (f *fakeStore) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.users, nil
}

func (f *fakeStore) CountSessionsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return f.sessions[userID], nil
}

func (f *fakeStore) InsertCoachMessage(ctx context.Context, msg Message) error {
	f.inserted = append(f.inserted, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWeeklyCheckin(t *testing.T) {
	store := &fakeStore{users: []uuid.UUID{uuid.New(), uuid.New()}}
	s := NewScheduler(store, discardLogger())

	s.weeklyCheckin()

	if len(store.inserted) != 2 {
		t.Fatalf("inserted %d messages, want 2", len(store.inserted))
	}
	for _, msg := range store.inserted {
		if msg.Trigger != TriggerWeeklyCheckin {
			t.Errorf("trigger = %q, want weekly_checkin", msg.Trigger)
		}
		if msg.Priority != PriorityLow {
			t.Errorf("priority = %q, want low", msg.Priority)
		}
	}
}

// TestMissedWorkoutScan verifies only users with no recent sessions get a
// nudge.
func TestMissedWorkoutScan(t *testing.T) {
	active := uuid.New()
	idle := uuid.New()
	store := &fakeStore{
		users:    []uuid.UUID{active, idle},
		sessions: map[uuid.UUID]int{active: 3},
	}
	s := NewScheduler(store, discardLogger())

	s.missedWorkoutScan()

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d messages, want 1", len(store.inserted))
	}
	msg := store.inserted[0]
	if msg.UserID != idle {
		t.Errorf("nudged user = %v, want the idle user %v", msg.UserID, idle)
	}
	if msg.Trigger != TriggerMissedWorkout {
		t.Errorf("trigger = %q, want missed_workout", msg.Trigger)
	}
}
