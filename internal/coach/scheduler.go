package coach

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Store is the persistence surface the scheduler needs.
type Store interface {
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
	CountSessionsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	InsertCoachMessage(ctx context.Context, msg Message) error
}

// Scheduler fires time-driven coaching triggers: the weekly check-in for
// every active user, and a daily scan that nudges users with no completed
// sessions in the last three days.
type Scheduler struct {
	store Store
	log   *slog.Logger
	cron  *cron.Cron
}

func NewScheduler(store Store, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store: store,
		log:   log,
		cron:  cron.New(),
	}
}

// Start registers the cron entries and begins scheduling. Errors inside a
// run are logged, never fatal; a missed nudge is not worth crashing over.
func (s *Scheduler) Start() {
	s.cron.AddFunc("@weekly", s.weeklyCheckin)
	s.cron.AddFunc("@daily", s.missedWorkoutScan)
	s.cron.Start()
}

// Stop halts the cron scheduler. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) weeklyCheckin() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := s.store.ListActiveUserIDs(ctx)
	if err != nil {
		s.log.Error("weekly checkin: listing users", "error", err)
		return
	}

	now := time.Now()
	for _, uid := range users {
		msg := Select(uid, TriggerWeeklyCheckin, now)
		if err := s.store.InsertCoachMessage(ctx, msg); err != nil {
			s.log.Error("weekly checkin: inserting message", "user_id", uid, "error", err)
		}
	}
	s.log.Info("weekly checkin sent", "users", len(users))
}

func (s *Scheduler) missedWorkoutScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := s.store.ListActiveUserIDs(ctx)
	if err != nil {
		s.log.Error("missed workout scan: listing users", "error", err)
		return
	}

	cutoff := time.Now().AddDate(0, 0, -3)
	var nudged int
	for _, uid := range users {
		n, err := s.store.CountSessionsSince(ctx, uid, cutoff)
		if err != nil {
			s.log.Error("missed workout scan: counting sessions", "user_id", uid, "error", err)
			continue
		}
		if n > 0 {
			continue
		}
		msg := Select(uid, TriggerMissedWorkout, time.Now())
		if err := s.store.InsertCoachMessage(ctx, msg); err != nil {
			s.log.Error("missed workout scan: inserting message", "user_id", uid, "error", err)
			continue
		}
		nudged++
	}
	s.log.Info("missed workout scan complete", "users", len(users), "nudged", nudged)
}
