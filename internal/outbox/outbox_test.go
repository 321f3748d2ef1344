package outbox

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/workout"
)

type flakySaver struct {
	failures int
	saved    []workout.Session
}

func (s *flakySaver) SaveSession(ctx context.Context, sess workout.Session) (*workout.Session, error) {
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("db unavailable")
	}
	s.saved = append(s.saved, sess)
	return &sess, nil
}

func testSession(t *testing.T) workout.Session {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	return workout.Session{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Name:        "Push Day",
		StartedAt:   now.Add(-45 * time.Minute),
		CompletedAt: &now,
		TotalSets:   6,
		TotalReps:   48,
		TotalVolume: 1920,
		Status:      workout.StatusCompleted,
	}
}

func openTest(t *testing.T) *Outbox {
	t.Helper()
	o, err := Open(t.TempDir(), slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { o.Close() })
	return o
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestEnqueueDrain(t *testing.T) {
	o := openTest(t)
	sess := testSession(t)

	if err := o.Enqueue(sess); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if n, _ := o.Pending(); n != 1 {
		t.Fatalf("Pending() = %d, want 1", n)
	}

	saver := &flakySaver{}
	flushed, err := o.Drain(context.Background(), saver)
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if flushed != 1 {
		t.Errorf("Drain() flushed = %d, want 1", flushed)
	}
	if n, _ := o.Pending(); n != 0 {
		t.Errorf("Pending() after drain = %d, want 0", n)
	}
	if len(saver.saved) != 1 || saver.saved[0].ID != sess.ID {
		t.Fatalf("saved sessions = %v, want the enqueued session", saver.saved)
	}
	if saver.saved[0].TotalVolume != sess.TotalVolume {
		t.Errorf("saved volume = %v, want %v", saver.saved[0].TotalVolume, sess.TotalVolume)
	}
}

func TestDrainKeepsFailedSessions(t *testing.T) {
	o := openTest(t)
	if err := o.Enqueue(testSession(t)); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	saver := &flakySaver{failures: 1}
	flushed, err := o.Drain(context.Background(), saver)
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if flushed != 0 {
		t.Errorf("Drain() flushed = %d, want 0", flushed)
	}
	if n, _ := o.Pending(); n != 1 {
		t.Errorf("Pending() = %d, want 1 after failed drain", n)
	}

	// Next drain succeeds and clears the queue.
	flushed, err = o.Drain(context.Background(), saver)
	if err != nil {
		t.Fatalf("Drain() retry error = %v", err)
	}
	if flushed != 1 {
		t.Errorf("Drain() retry flushed = %d, want 1", flushed)
	}
	if n, _ := o.Pending(); n != 0 {
		t.Errorf("Pending() = %d, want 0 after retry", n)
	}
}

func TestEnqueueReplacesDuplicate(t *testing.T) {
	o := openTest(t)
	sess := testSession(t)

	if err := o.Enqueue(sess); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	sess.Notes = "second attempt"
	if err := o.Enqueue(sess); err != nil {
		t.Fatalf("Enqueue() duplicate error = %v", err)
	}
	if n, _ := o.Pending(); n != 1 {
		t.Fatalf("Pending() = %d, want 1 after duplicate enqueue", n)
	}

	saver := &flakySaver{}
	if _, err := o.Drain(context.Background(), saver); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if got := saver.saved[0].Notes; got != "second attempt" {
		t.Errorf("drained notes = %q, want the replacing payload", got)
	}
}
