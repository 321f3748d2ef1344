package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/coach"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/storage"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// Store is the storage surface the HTTP handlers need. *storage.DB
// satisfies it; tests substitute a fake.
type Store interface {
	SessionSaver

	ListSessionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]workout.Session, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*workout.Session, error)
	ListRecordsByUser(ctx context.Context, userID uuid.UUID, exerciseID string) ([]workout.PersonalRecord, error)
	GetTrainingStats(ctx context.Context, userID uuid.UUID) (*storage.TrainingStats, error)

	SavePlan(ctx context.Context, p workout.Plan) error
	GetPlan(ctx context.Context, id, userID uuid.UUID) (*workout.Plan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]workout.Plan, error)
	DeletePlan(ctx context.Context, id, ownerID uuid.UUID) error

	UpsertProfile(ctx context.Context, p models.ProfileRow) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileRow, error)
	UpsertPreferences(ctx context.Context, p models.PreferencesRow) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.PreferencesRow, error)
	InsertGoal(ctx context.Context, g models.GoalRow) error
	ListGoals(ctx context.Context, userID uuid.UUID) ([]models.GoalRow, error)
	ActiveGoalType(ctx context.Context, userID uuid.UUID) (string, error)

	InsertCheckin(ctx context.Context, c models.CheckinRow) error
	ListCheckins(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckinRow, error)

	InsertCoachMessage(ctx context.Context, msg coach.Message) error
	ListCoachMessages(ctx context.Context, userID uuid.UUID, limit int) ([]coach.Message, error)
	UnreadCoachMessages(ctx context.Context, userID uuid.UUID) (int, error)
	MarkCoachMessagesRead(ctx context.Context, userID uuid.UUID) error
}

var _ Store = (*storage.DB)(nil)

// Authenticator issues and refreshes credentials.
type Authenticator interface {
	TokenVerifier
	Register(ctx context.Context, email, password string) (*storage.User, string, error)
	Login(ctx context.Context, email, password string) (*storage.User, string, error)
	Refresh(token string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (uuid.UUID, error)
	ResetPassword(ctx context.Context, token uuid.UUID, newPassword string) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	auth     Authenticator
	sessions *Manager
	log      *slog.Logger
	router   chi.Router
	now      func() time.Time
}

// New creates a new Server with all routes configured.
func New(db Store, auth Authenticator, sessions *Manager, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		auth:     auth,
		sessions: sessions,
		log:      log,
		router:   chi.NewRouter(),
		now:      time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetMCP mounts an MCP transport handler at /mcp. The handler is expected
// to do its own bearer authentication. Must be called before serving.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Account endpoints (no token yet)
	s.router.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/password-reset/request", s.handleResetRequest)
		r.Post("/password-reset/confirm", s.handleResetConfirm)
	})

	// Everything else requires a bearer token
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(s.auth))

		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)

		r.Post("/session/start", s.handleStartSession)
		r.Post("/session/complete-set", s.handleCompleteSet)
		r.Post("/session/skip-rest", s.handleSkipRest)
		r.Get("/session", s.handleSessionState)
		r.Post("/session/cancel", s.handleCancelSession)

		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/records", s.handleListRecords)
		r.Get("/stats", s.handleStats)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)
		r.Get("/goals", s.handleListGoals)
		r.Post("/goals", s.handleCreateGoal)

		r.Get("/nutrition/targets", s.handleNutritionTargets)
		r.Post("/nutrition/adherence", s.handleAdherence)

		r.Get("/checkins", s.handleListCheckins)
		r.Post("/checkins", s.handleCreateCheckin)

		r.Get("/coach/messages", s.handleListCoachMessages)
		r.Post("/coach/messages/read", s.handleMarkCoachRead)
		r.Post("/coach/ask", s.handleCoachAsk)
		r.Post("/coach/events", s.handleCoachEvent)
	})
}
