package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// User is an account row. PasswordHash is a bcrypt hash and never leaves
// the auth layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUser inserts a new account.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	u := &User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, IsActive: true}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail finds an account by email. Returns ErrNotFound when the
// email is unknown.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, is_active, created_at, updated_at
		FROM users WHERE email = $1`, email)
}

// GetUserByID finds an account by ID. Returns ErrNotFound for unknown IDs.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdateUserPassword replaces an account's password hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveUserIDs returns the IDs of all active accounts.
func (db *DB) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id FROM users WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("querying active users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateResetToken stores a single-use password reset token.
func (db *DB) CreateResetToken(ctx context.Context, userID uuid.UUID, token uuid.UUID, expiresAt time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("inserting reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken atomically marks an unexpired, unused token as used and
// returns its owner. Returns ErrNotFound for unknown, expired, or already
// consumed tokens.
func (db *DB) ConsumeResetToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`UPDATE password_reset_tokens
		 SET used = TRUE
		 WHERE token = $1 AND NOT used AND expires_at > NOW()
		 RETURNING user_id`,
		token,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consuming reset token: %w", err)
	}
	return userID, nil
}
