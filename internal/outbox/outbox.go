// Package outbox buffers finalized workout sessions that could not be
// written to Postgres, so a completed workout is never lost to a transient
// database outage. Pending sessions live in a local SQLite file and are
// retried until they land.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ironcoach/ironcoach/internal/workout"
	_ "modernc.org/sqlite"
)

// Saver is the destination a drained session is written to.
type Saver interface {
	SaveSession(ctx context.Context, s workout.Session) (*workout.Session, error)
}

// Outbox is the local pending-session buffer.
type Outbox struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the outbox database at dir/outbox.db.
func Open(dir string, log *slog.Logger) (*Outbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating outbox dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "outbox.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening outbox db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_sessions (
		session_id TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		attempts   INTEGER NOT NULL DEFAULT 0,
		queued_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating pending table: %w", err)
	}

	return &Outbox{db: db, log: log}, nil
}

// Enqueue stores a session that failed to save. Re-enqueueing the same
// session replaces the earlier payload.
func (o *Outbox) Enqueue(s workout.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	_, err = o.db.Exec(
		`INSERT OR REPLACE INTO pending_sessions (session_id, payload) VALUES (?, ?)`,
		s.ID.String(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("enqueueing session %s: %w", s.ID, err)
	}
	return nil
}

// Pending returns the number of sessions waiting to be drained.
func (o *Outbox) Pending() (int, error) {
	var count int
	if err := o.db.QueryRow(`SELECT COUNT(*) FROM pending_sessions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Drain retries every pending session against the saver. Sessions that
// save are removed; sessions that fail again stay queued with their
// attempt count bumped. Returns the number of sessions flushed.
func (o *Outbox) Drain(ctx context.Context, saver Saver) (int, error) {
	rows, err := o.db.Query(`SELECT session_id, payload FROM pending_sessions ORDER BY queued_at`)
	if err != nil {
		return 0, fmt.Errorf("querying pending sessions: %w", err)
	}

	type pending struct {
		id      string
		payload string
	}
	var queue []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning pending session: %w", err)
		}
		queue = append(queue, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	flushed := 0
	for _, p := range queue {
		var s workout.Session
		if err := json.Unmarshal([]byte(p.payload), &s); err != nil {
			// Undecodable payloads would retry forever. Drop with a log line.
			o.log.Error("dropping undecodable outbox payload", "session_id", p.id, "error", err)
			o.remove(p.id)
			continue
		}

		if _, err := saver.SaveSession(ctx, s); err != nil {
			o.log.Warn("outbox retry failed", "session_id", p.id, "error", err)
			o.db.Exec(`UPDATE pending_sessions SET attempts = attempts + 1 WHERE session_id = ?`, p.id)
			continue
		}

		if err := o.remove(p.id); err != nil {
			return flushed, err
		}
		flushed++
	}
	return flushed, nil
}

// Run drains the outbox on the given interval until the context is
// cancelled. Intended to run as a background goroutine.
func (o *Outbox) Run(ctx context.Context, saver Saver, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushed, err := o.Drain(ctx, saver)
			if err != nil {
				o.log.Error("outbox drain failed", "error", err)
			} else if flushed > 0 {
				o.log.Info("outbox drained", "flushed", flushed)
			}
		}
	}
}

func (o *Outbox) remove(sessionID string) error {
	_, err := o.db.Exec(`DELETE FROM pending_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("removing session %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the outbox database.
func (o *Outbox) Close() error {
	return o.db.Close()
}
