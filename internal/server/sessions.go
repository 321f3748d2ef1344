package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/realtime"
	"github.com/ironcoach/ironcoach/internal/workout"
)

var (
	// ErrSessionActive is returned when a user starts a workout while one
	// is already running.
	ErrSessionActive = errors.New("a workout session is already active")
	// ErrNoActiveSession is returned for operations on a user with no
	// running workout.
	ErrNoActiveSession = errors.New("no active workout session")
)

// SessionSaver persists finalized sessions and their personal records.
type SessionSaver interface {
	SaveSession(ctx context.Context, s workout.Session) (*workout.Session, error)
	PriorBests(ctx context.Context, userID uuid.UUID) (workout.PriorBests, error)
	InsertRecords(ctx context.Context, records []workout.PersonalRecord) error
}

// Failsafe buffers sessions that could not be saved.
type Failsafe interface {
	Enqueue(s workout.Session) error
}

// activeSession is one user's in-flight workout.
type activeSession struct {
	id        uuid.UUID
	userID    uuid.UUID
	plan      workout.Plan
	tracker   *workout.Tracker
	startedAt time.Time
	stopTick  context.CancelFunc
}

// Manager owns all in-flight workout sessions, one per user. It drives the
// rest countdowns, broadcasts live updates, and finalizes sessions into
// storage when the last set completes.
type Manager struct {
	mu     sync.Mutex
	active map[uuid.UUID]*activeSession

	store    SessionSaver
	failsafe Failsafe
	pub      realtime.Publisher
	log      *slog.Logger
	now      func() time.Time
}

// NewManager wires the session manager. failsafe may be nil; save failures
// are then surfaced to the caller instead of buffered.
func NewManager(store SessionSaver, failsafe Failsafe, pub realtime.Publisher, log *slog.Logger) *Manager {
	if pub == nil {
		pub = realtime.NoopPublisher{}
	}
	return &Manager{
		active:   make(map[uuid.UUID]*activeSession),
		store:    store,
		failsafe: failsafe,
		pub:      pub,
		log:      log,
		now:      time.Now,
	}
}

// StartResult is returned when a session begins.
type StartResult struct {
	SessionID uuid.UUID            `json:"session_id"`
	StartedAt time.Time            `json:"started_at"`
	State     workout.TrackerState `json:"state"`
}

// Start begins a workout session against a plan. Only one session per user
// may be active.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID, plan workout.Plan) (*StartResult, error) {
	tracker, err := workout.NewTracker(plan.Exercises)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, ok := m.active[userID]; ok {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}
	sess := &activeSession{
		id:        uuid.New(),
		userID:    userID,
		plan:      plan,
		tracker:   tracker,
		startedAt: m.now(),
	}
	m.active[userID] = sess
	m.mu.Unlock()

	m.publish(ctx, sess, realtime.WorkoutStarted, map[string]any{
		"workout_name": plan.Name,
		"state":        tracker.State(),
	})

	return &StartResult{SessionID: sess.id, StartedAt: sess.startedAt, State: tracker.State()}, nil
}

// SetOutcome is the result of completing one set, including the finalized
// session and any new personal records when the workout just finished.
type SetOutcome struct {
	Result  workout.SetResult        `json:"result"`
	State   workout.TrackerState     `json:"state"`
	Session *workout.Session         `json:"session,omitempty"`
	Records []workout.PersonalRecord `json:"records,omitempty"`
}

// CompleteSet advances the user's active session by one set. Completing the
// final set finalizes the session, persists it, and detects personal
// records. A failed save goes to the failsafe buffer so the workout is not
// lost; record detection is skipped in that case since prior bests may be
// unreadable for the same reason.
func (m *Manager) CompleteSet(ctx context.Context, userID uuid.UUID) (*SetOutcome, error) {
	sess, err := m.get(userID)
	if err != nil {
		return nil, err
	}

	res, err := sess.tracker.CompleteSet()
	if err != nil {
		return nil, err
	}
	state := sess.tracker.State()
	outcome := &SetOutcome{Result: res, State: state}

	m.publish(ctx, sess, realtime.SetCompleted, map[string]any{
		"exercise_id": res.ExerciseID,
		"state":       state,
	})
	if res.ExerciseCompleted && !res.WorkoutCompleted {
		m.publish(ctx, sess, realtime.ExerciseCompleted, map[string]any{
			"exercise_id": res.ExerciseID,
		})
	}

	if res.WorkoutCompleted {
		m.remove(userID, sess)
		session, records := m.finalize(ctx, sess)
		outcome.Session = session
		outcome.Records = records
		return outcome, nil
	}

	if res.RestSeconds > 0 {
		m.startRestTicker(sess)
	}
	return outcome, nil
}

// SkipRest ends the active rest period.
func (m *Manager) SkipRest(ctx context.Context, userID uuid.UUID) (workout.TrackerState, error) {
	sess, err := m.get(userID)
	if err != nil {
		return workout.TrackerState{}, err
	}
	sess.tracker.SkipRest()
	m.stopTicker(sess)

	state := sess.tracker.State()
	m.publish(ctx, sess, realtime.WorkoutUpdated, map[string]any{"state": state})
	return state, nil
}

// State returns the live state of the user's active session.
func (m *Manager) State(userID uuid.UUID) (uuid.UUID, workout.TrackerState, error) {
	sess, err := m.get(userID)
	if err != nil {
		return uuid.Nil, workout.TrackerState{}, err
	}
	return sess.id, sess.tracker.State(), nil
}

// Cancel abandons the user's active session. The partial session is
// persisted with cancelled status so completed sets still count toward
// history.
func (m *Manager) Cancel(ctx context.Context, userID uuid.UUID) (*workout.Session, error) {
	sess, err := m.get(userID)
	if err != nil {
		return nil, err
	}
	m.remove(userID, sess)

	now := m.now()
	session := workout.Finalize(userID, sess.plan, sess.tracker.Progress(), sess.startedAt, now)
	session.ID = sess.id
	session.Status = workout.StatusCancelled
	session.CompletedAt = nil
	session.Notes = ""

	saved := m.save(ctx, &session)
	m.publish(ctx, sess, realtime.WorkoutUpdated, map[string]any{"status": workout.StatusCancelled})
	return saved, nil
}

// finalize persists a completed session and detects personal records.
func (m *Manager) finalize(ctx context.Context, sess *activeSession) (*workout.Session, []workout.PersonalRecord) {
	now := m.now()
	session := workout.Finalize(sess.userID, sess.plan, sess.tracker.Progress(), sess.startedAt, now)
	session.ID = sess.id

	saved := m.save(ctx, &session)

	var records []workout.PersonalRecord
	prior, err := m.store.PriorBests(ctx, sess.userID)
	if err != nil {
		m.log.Error("loading prior bests", "user_id", sess.userID, "error", err)
	} else {
		records = workout.DetectRecords(sess.userID, session.Exercises, prior, now)
		if len(records) > 0 {
			if err := m.store.InsertRecords(ctx, records); err != nil {
				m.log.Error("saving personal records", "user_id", sess.userID, "error", err)
				records = nil
			}
		}
	}

	m.publish(ctx, sess, realtime.WorkoutCompleted, map[string]any{
		"total_sets":   saved.TotalSets,
		"total_volume": saved.TotalVolume,
		"new_records":  len(records),
	})
	return saved, records
}

// save writes a session, falling back to the failsafe buffer on error. The
// in-memory session is always returned so clients see their completed
// workout either way.
func (m *Manager) save(ctx context.Context, session *workout.Session) *workout.Session {
	saved, err := m.store.SaveSession(ctx, *session)
	if err == nil {
		return saved
	}
	m.log.Error("saving session", "session_id", session.ID, "error", err)
	if m.failsafe != nil {
		if qerr := m.failsafe.Enqueue(*session); qerr != nil {
			m.log.Error("buffering session", "session_id", session.ID, "error", qerr)
		}
	}
	return session
}

// startRestTicker counts the rest period down once per second, broadcasting
// each tick. A new rest replaces any running ticker.
func (m *Manager) startRestTicker(sess *activeSession) {
	m.stopTicker(sess)

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	sess.stopTick = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resting := sess.tracker.Tick()
				m.publish(ctx, sess, realtime.WorkoutUpdated, map[string]any{
					"state": sess.tracker.State(),
				})
				if !resting {
					return
				}
			}
		}
	}()
}

func (m *Manager) stopTicker(sess *activeSession) {
	m.mu.Lock()
	cancel := sess.stopTick
	sess.stopTick = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) get(userID uuid.UUID) (*activeSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}

func (m *Manager) remove(userID uuid.UUID, sess *activeSession) {
	m.stopTicker(sess)
	m.mu.Lock()
	delete(m.active, userID)
	m.mu.Unlock()
}

// publish broadcasts fire-and-forget; a dead broker never fails a workout
// operation.
func (m *Manager) publish(ctx context.Context, sess *activeSession, typ realtime.UpdateType, data map[string]any) {
	update := realtime.WorkoutUpdate{
		Type:             typ,
		WorkoutSessionID: sess.id,
		Data:             data,
		Timestamp:        m.now(),
	}
	if err := m.pub.Publish(ctx, update); err != nil {
		m.log.Warn("publishing workout update", "type", typ, "session_id", sess.id, "error", err)
	}
}
