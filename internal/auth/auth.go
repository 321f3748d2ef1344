// Package auth handles account registration, login, token issuance, and
// password resets. Tokens are HS256 JWTs carrying the user ID as subject.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// UserStore is the subset of storage the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*storage.User, error)
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*storage.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CreateResetToken(ctx context.Context, userID, token uuid.UUID, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error)
}

// Service issues and verifies credentials.
type Service struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		resetTTL: time.Hour,
	}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, email, password string) (*storage.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.New("valid email is required")
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies a password and returns the account with a fresh token.
// Unknown emails and wrong passwords both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*storage.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify parses a bearer token and returns the user ID it was issued to.
func (s *Service) Verify(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Refresh re-issues a token for a still-valid one.
func (s *Service) Refresh(token string) (string, error) {
	userID, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return s.issue(userID)
}

// RequestPasswordReset creates a single-use reset token for the account.
// Returns ErrNotFound from storage when the email is unknown; callers
// typically hide that from the client.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (uuid.UUID, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return uuid.Nil, err
	}

	token := uuid.New()
	if err := s.store.CreateResetToken(ctx, user.ID, token, time.Now().Add(s.resetTTL)); err != nil {
		return uuid.Nil, err
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	userID, err := s.store.ConsumeResetToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.store.UpdateUserPassword(ctx, userID, string(hash))
}

func (s *Service) issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "ironcoach",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}
