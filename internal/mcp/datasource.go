package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/coach"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/storage"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListSessionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]workout.Session, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*workout.Session, error)
	ListRecordsByUser(ctx context.Context, userID uuid.UUID, exerciseID string) ([]workout.PersonalRecord, error)
	GetTrainingStats(ctx context.Context, userID uuid.UUID) (*storage.TrainingStats, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileRow, error)
	ActiveGoalType(ctx context.Context, userID uuid.UUID) (string, error)
	ListCheckins(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckinRow, error)
	ListCoachMessages(ctx context.Context, userID uuid.UUID, limit int) ([]coach.Message, error)
	InsertCoachMessage(ctx context.Context, msg coach.Message) error
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
