package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/coach"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/storage"
	"github.com/ironcoach/ironcoach/internal/workout"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	fakeSaver
	sessions  []workout.Session
	plans     map[uuid.UUID]workout.Plan
	profiles  map[uuid.UUID]models.ProfileRow
	prefs     map[uuid.UUID]models.PreferencesRow
	goals     []models.GoalRow
	checkins  []models.CheckinRow
	coachMsgs []coach.Message
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plans:    map[uuid.UUID]workout.Plan{},
		profiles: map[uuid.UUID]models.ProfileRow{},
		prefs:    map[uuid.UUID]models.PreferencesRow{},
	}
}

func (f *fakeStore) SaveSession(ctx context.Context, s workout.Session) (*workout.Session, error) {
	saved, err := f.fakeSaver.SaveSession(ctx, s)
	if err == nil {
		f.sessions = append(f.sessions, s)
	}
	return saved, err
}

func (f *fakeStore) ListSessionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]workout.Session, error) {
	var out []workout.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == workout.StatusCompleted {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*workout.Session, error) {
	for _, s := range f.sessions {
		if s.ID == sessionID && s.UserID == userID {
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListRecordsByUser(ctx context.Context, userID uuid.UUID, exerciseID string) ([]workout.PersonalRecord, error) {
	var out []workout.PersonalRecord
	for _, r := range f.records {
		if r.UserID == userID && (exerciseID == "" || r.ExerciseID == exerciseID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTrainingStats(ctx context.Context, userID uuid.UUID) (*storage.TrainingStats, error) {
	stats := &storage.TrainingStats{}
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == workout.StatusCompleted {
			stats.TotalWorkouts++
			stats.TotalSets += int64(s.TotalSets)
			stats.TotalReps += int64(s.TotalReps)
			stats.TotalVolume += s.TotalVolume
		}
	}
	return stats, nil
}

func (f *fakeStore) SavePlan(ctx context.Context, p workout.Plan) error {
	f.plans[p.ID] = p
	return nil
}

func (f *fakeStore) GetPlan(ctx context.Context, id, userID uuid.UUID) (*workout.Plan, error) {
	p, ok := f.plans[id]
	if !ok || (p.OwnerID != nil && *p.OwnerID != userID) {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListPlans(ctx context.Context, userID uuid.UUID) ([]workout.Plan, error) {
	var out []workout.Plan
	for _, p := range f.plans {
		if p.OwnerID == nil || *p.OwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) DeletePlan(ctx context.Context, id, ownerID uuid.UUID) error {
	p, ok := f.plans[id]
	if !ok || p.OwnerID == nil || *p.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakeStore) UpsertProfile(ctx context.Context, p models.ProfileRow) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileRow, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) UpsertPreferences(ctx context.Context, p models.PreferencesRow) error {
	f.prefs[p.UserID] = p
	return nil
}

func (f *fakeStore) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.PreferencesRow, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) InsertGoal(ctx context.Context, g models.GoalRow) error {
	f.goals = append(f.goals, g)
	return nil
}

func (f *fakeStore) ListGoals(ctx context.Context, userID uuid.UUID) ([]models.GoalRow, error) {
	var out []models.GoalRow
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveGoalType(ctx context.Context, userID uuid.UUID) (string, error) {
	for _, g := range f.goals {
		if g.UserID == userID && g.IsActive {
			return g.Type, nil
		}
	}
	return "", nil
}

func (f *fakeStore) InsertCheckin(ctx context.Context, c models.CheckinRow) error {
	f.checkins = append(f.checkins, c)
	return nil
}

func (f *fakeStore) ListCheckins(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckinRow, error) {
	var out []models.CheckinRow
	for _, c := range f.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertCoachMessage(ctx context.Context, msg coach.Message) error {
	f.coachMsgs = append(f.coachMsgs, msg)
	return nil
}

func (f *fakeStore) ListCoachMessages(ctx context.Context, userID uuid.UUID, limit int) ([]coach.Message, error) {
	var out []coach.Message
	for _, m := range f.coachMsgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) UnreadCoachMessages(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range f.coachMsgs {
		if m.UserID == userID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) MarkCoachMessagesRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// fakeAuth maps one fixed token to one user.
type fakeAuth struct {
	userID uuid.UUID
}

func (a *fakeAuth) Verify(token string) (uuid.UUID, error) {
	if token != "test-token" {
		return uuid.Nil, errors.New("invalid token")
	}
	return a.userID, nil
}

func (a *fakeAuth) Register(ctx context.Context, email, password string) (*storage.User, string, error) {
	return &storage.User{ID: a.userID, Email: email}, "test-token", nil
}

func (a *fakeAuth) Login(ctx context.Context, email, password string) (*storage.User, string, error) {
	return &storage.User{ID: a.userID, Email: email}, "test-token", nil
}

func (a *fakeAuth) Refresh(token string) (string, error) {
	if token != "test-token" {
		return "", errors.New("invalid token")
	}
	return "test-token", nil
}

func (a *fakeAuth) RequestPasswordReset(ctx context.Context, email string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (a *fakeAuth) ResetPassword(ctx context.Context, token uuid.UUID, newPassword string) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeStore, uuid.UUID) {
	t.Helper()
	store := newFakeStore()
	userID := uuid.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewManager(store, nil, nil, log)
	return New(store, &fakeAuth{userID: userID}, manager, log), store, userID
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestSessionLifecycleHTTP drives a complete workout through the HTTP API.
func TestSessionLifecycleHTTP(t *testing.T) {
	s, store, _ := newTestServer(t)

	plan := map[string]any{
		"plan": map[string]any{
			"name": "Quick Squats",
			"exercises": []map[string]any{
				{"exercise_id": "squat", "name": "Squat", "sets": 2, "reps": 5, "rest_seconds": 0, "weight": 100},
			},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", plan)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body)
	}

	// State is queryable
	rec = doJSON(t, s, http.MethodGet, "/api/v1/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/complete-set", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete-set status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/complete-set", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("final complete-set status = %d, body %s", rec.Code, rec.Body)
	}
	var outcome SetOutcome
	if err := json.NewDecoder(rec.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !outcome.Result.WorkoutCompleted {
		t.Fatal("workout not completed")
	}
	if outcome.Session == nil || outcome.Session.TotalVolume != 1000 {
		t.Fatalf("session = %+v, want volume 1000", outcome.Session)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("stored %d sessions, want 1", len(store.sessions))
	}

	// Completed session shows up in history
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var history []workout.Session
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d sessions, want 1", len(history))
	}

	// Records were created and are listable
	rec = doJSON(t, s, http.MethodGet, "/api/v1/records?exercise_id=squat", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("records status = %d", rec.Code)
	}
	var records []workout.PersonalRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(records) == 0 {
		t.Error("no records for squat after first workout")
	}
}

// TestStartSessionRequiresAuth verifies the bearer token gate on the
// workout API.
func TestStartSessionRequiresAuth(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/start", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestStartSessionConflict verifies a 409 when a session is already
// running.
func TestStartSessionConflict(t *testing.T) {
	s, _, _ := newTestServer(t)

	plan := map[string]any{
		"plan": map[string]any{
			"name": "A",
			"exercises": []map[string]any{
				{"exercise_id": "squat", "name": "Squat", "sets": 1, "reps": 5},
			},
		},
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", plan); rec.Code != http.StatusCreated {
		t.Fatalf("first start status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", plan); rec.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", rec.Code)
	}
}

// TestPlanCRUD exercises plan create, list, fetch, and delete.
func TestPlanCRUD(t *testing.T) {
	s, _, _ := newTestServer(t)

	plan := map[string]any{
		"name": "Leg Day",
		"exercises": []map[string]any{
			{"exercise_id": "squat", "name": "Squat", "sets": 3, "reps": 8, "rest_seconds": 120, "weight": 90},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/plans", plan)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created workout.Plan
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/plans", nil)
	var plans []workout.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plans); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(plans) != 1 || plans[0].Name != "Leg Day" {
		t.Fatalf("plans = %+v, want the created plan", plans)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/plans/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/plans/"+created.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/v1/plans/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// TestPlanOwnerScoping verifies another user's custom plan is invisible:
// it can be neither fetched by ID nor used to start a session.
func TestPlanOwnerScoping(t *testing.T) {
	s, store, _ := newTestServer(t)

	otherUser := uuid.New()
	foreign := workout.Plan{
		ID:      uuid.New(),
		Name:    "Someone Else's Split",
		OwnerID: &otherUser,
		Exercises: []workout.PlanExercise{
			{ExerciseID: "deadlift", Name: "Deadlift", Sets: 3, Reps: 5, RestSeconds: 180},
		},
	}
	store.plans[foreign.ID] = foreign

	rec := doJSON(t, s, http.MethodGet, "/api/v1/plans/"+foreign.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get foreign plan status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"plan_id": foreign.ID})
	if rec.Code != http.StatusNotFound {
		t.Errorf("start from foreign plan status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/plans", nil)
	var plans []workout.Plan
	if err := json.NewDecoder(rec.Body).Decode(&plans); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("listed %d foreign plans, want 0", len(plans))
	}
}

// TestSessionFromSharedTemplate verifies shared templates (no owner) are
// startable by any user and the finished session references the template.
func TestSessionFromSharedTemplate(t *testing.T) {
	s, store, _ := newTestServer(t)

	template := workout.Plan{
		ID:   uuid.New(),
		Name: "Starter Full Body",
		Exercises: []workout.PlanExercise{
			{ExerciseID: "goblet-squat", Name: "Goblet Squat", Sets: 1, Reps: 10, RestSeconds: 0, Weight: floatPtr(16)},
		},
	}
	store.plans[template.ID] = template

	rec := doJSON(t, s, http.MethodGet, "/api/v1/plans/"+template.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get template status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"plan_id": template.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/complete-set", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete-set status = %d, body %s", rec.Code, rec.Body)
	}
	var outcome SetOutcome
	if err := json.NewDecoder(rec.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if outcome.Session == nil {
		t.Fatal("no finalized session")
	}
	if outcome.Session.TemplateID == nil || *outcome.Session.TemplateID != template.ID {
		t.Errorf("template_id = %v, want %v", outcome.Session.TemplateID, template.ID)
	}
}

// TestPlanValidation verifies bad prescriptions are rejected.
func TestPlanValidation(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/plans", map[string]any{"name": "Empty"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty plan status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/plans", map[string]any{
		"name": "Zero Sets",
		"exercises": []map[string]any{
			{"exercise_id": "squat", "name": "Squat", "sets": 0, "reps": 8},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero sets status = %d, want 400", rec.Code)
	}
}

// TestNutritionTargets verifies target derivation from profile and goal.
func TestNutritionTargets(t *testing.T) {
	s, store, userID := newTestServer(t)

	// No profile yet
	rec := doJSON(t, s, http.MethodGet, "/api/v1/nutrition/targets", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status without profile = %d, want 409", rec.Code)
	}

	weight, height, age := 80.0, 180.0, 30
	gender, activity := "male", "moderately_active"
	store.profiles[userID] = models.ProfileRow{
		UserID: userID, WeightKg: &weight, HeightCm: &height, Age: &age,
		Gender: &gender, ActivityLevel: &activity,
	}
	store.goals = append(store.goals, models.GoalRow{
		UserID: userID, Type: "muscle_gain", IsActive: true,
	})

	rec = doJSON(t, s, http.MethodGet, "/api/v1/nutrition/targets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var targets nutritionTargets
	if err := json.NewDecoder(rec.Body).Decode(&targets); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	// BMR = 10*80 + 6.25*180 - 5*30 + 5 = 1780, TDEE = 1780*1.55 = 2759,
	// surplus 10% = 3034
	if targets.BMR != 1780 {
		t.Errorf("BMR = %d, want 1780", targets.BMR)
	}
	if targets.TDEE != 2759 {
		t.Errorf("TDEE = %d, want 2759", targets.TDEE)
	}
	if targets.Calories != 3034 {
		t.Errorf("calories = %d, want 3034", targets.Calories)
	}
	if targets.Goal != "muscle_gain" {
		t.Errorf("goal = %q, want muscle_gain", targets.Goal)
	}
	if targets.Macros.ProteinG <= 0 || targets.Macros.CarbsG <= 0 || targets.Macros.FatG <= 0 {
		t.Errorf("macros = %+v, want positive grams", targets.Macros)
	}
}

// TestAdherenceEndpoint verifies perfect intake scores 100.
func TestAdherenceEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := map[string]any{
		"consumed": map[string]float64{"calories": 2000, "protein": 150, "carbs": 200, "fat": 70},
		"targets":  map[string]float64{"calories": 2000, "protein": 150, "carbs": 200, "fat": 70},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/nutrition/adherence", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp["adherence_score"] != 100 {
		t.Errorf("score = %d, want 100", resp["adherence_score"])
	}
}

// TestCheckinEndpoint verifies readiness scoring and storage of check-ins.
func TestCheckinEndpoint(t *testing.T) {
	s, store, _ := newTestServer(t)

	body := map[string]float64{
		"sleep_quality": 10, "sleep_hours": 8, "stress_level": 1,
		"soreness": 1, "energy": 10, "motivation": 10,
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/checkins", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var checkin models.CheckinRow
	if err := json.NewDecoder(rec.Body).Decode(&checkin); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	// 10*0.25 - 0.2 - 0.15 + 2 + 1.5 + 1.5 = 7.15 -> 7
	if checkin.ReadinessScore != 7 {
		t.Errorf("readiness = %d, want 7", checkin.ReadinessScore)
	}
	if len(store.checkins) != 1 {
		t.Errorf("stored %d checkins, want 1", len(store.checkins))
	}
}

// TestCoachAsk verifies keyword answering and persistence.
func TestCoachAsk(t *testing.T) {
	s, store, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/coach/ask", map[string]string{"question": "How much rest between sets?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var msg coach.Message
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if msg.Text == "" {
		t.Error("empty answer text")
	}
	if len(store.coachMsgs) != 1 {
		t.Errorf("stored %d messages, want 1", len(store.coachMsgs))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/coach/ask", map[string]string{"question": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty question status = %d, want 400", rec.Code)
	}
}

// TestCoachEvent verifies client-reported triggers produce prioritized
// messages.
func TestCoachEvent(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/coach/events", map[string]string{"trigger": "injury_reported"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var msg coach.Message
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if msg.Priority != coach.PriorityUrgent {
		t.Errorf("priority = %q, want urgent", msg.Priority)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/coach/events", map[string]string{"trigger": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown trigger status = %d, want 400", rec.Code)
	}
}

// TestCoachMessagesUnread verifies the message list carries the unread count.
func TestCoachMessagesUnread(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/coach/events", map[string]string{"trigger": "workout_complete"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("event status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/coach/messages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var resp struct {
		Messages []coach.Message `json:"messages"`
		Unread   int             `json:"unread"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(resp.Messages))
	}
	if resp.Unread != 1 {
		t.Errorf("unread = %d, want 1", resp.Unread)
	}
}

// TestProfileRoundTrip verifies profile put/get through the API.
func TestProfileRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get before put status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/profile", map[string]any{
		"name": "Alex", "age": 28, "weight": 75.5, "height": 178.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var profile models.ProfileRow
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if profile.Name == nil || *profile.Name != "Alex" {
		t.Errorf("name = %v, want Alex", profile.Name)
	}
	if profile.Age == nil || *profile.Age != 28 {
		t.Errorf("age = %v, want 28", profile.Age)
	}
}

// TestHealthEndpoint verifies the unauthenticated health check.
func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
