package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/coach"
)

// InsertCoachMessage persists a generated coaching message. Quick replies
// are stored as a text array.
func (db *DB) InsertCoachMessage(ctx context.Context, msg coach.Message) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO coach_messages (id, user_id, trigger, type, text, quick_replies,
		 context, sentiment, priority, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		msg.ID, msg.UserID, string(msg.Trigger), string(msg.Type), msg.Text, msg.QuickReplies,
		msg.Context, string(msg.Sentiment), string(msg.Priority), msg.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting coach message: %w", err)
	}
	return nil
}

// ListCoachMessages retrieves a user's coaching messages, newest first.
// limit <= 0 returns all of them.
func (db *DB) ListCoachMessages(ctx context.Context, userID uuid.UUID, limit int) ([]coach.Message, error) {
	query := `SELECT id, user_id, trigger, type, text, quick_replies, context, sentiment, priority, created_at, read_at
		FROM coach_messages
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying coach messages: %w", err)
	}
	defer rows.Close()

	var msgs []coach.Message
	for rows.Next() {
		var m coach.Message
		var trigger, msgType, sentiment, priority string
		if err := rows.Scan(&m.ID, &m.UserID, &trigger, &msgType, &m.Text, &m.QuickReplies,
			&m.Context, &sentiment, &priority, &m.Timestamp, &m.ReadAt); err != nil {
			return nil, fmt.Errorf("scanning coach message: %w", err)
		}
		m.Trigger = coach.Trigger(trigger)
		m.Type = coach.MessageType(msgType)
		m.Sentiment = coach.Sentiment(sentiment)
		m.Priority = coach.Priority(priority)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// UnreadCoachMessages counts messages the user has not acknowledged yet.
func (db *DB) UnreadCoachMessages(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM coach_messages WHERE user_id = $1 AND read_at IS NULL`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread coach messages: %w", err)
	}
	return count, nil
}

// MarkCoachMessagesRead stamps all of a user's unread messages as read.
func (db *DB) MarkCoachMessagesRead(ctx context.Context, userID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE coach_messages SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("marking coach messages read: %w", err)
	}
	return nil
}
