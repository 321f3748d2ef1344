package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/metrics"
	"github.com/ironcoach/ironcoach/internal/models"
	"github.com/ironcoach/ironcoach/internal/storage"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	profile, err := s.db.GetProfile(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not set"})
		return
	}
	if err != nil {
		s.log.Error("loading profile", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading profile failed"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var profile models.ProfileRow
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	profile.UserID = userID

	if err := s.db.UpsertProfile(r.Context(), profile); err != nil {
		s.log.Error("saving profile", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving profile failed"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	prefs, err := s.db.GetPreferences(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "preferences not set"})
		return
	}
	if err != nil {
		s.log.Error("loading preferences", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading preferences failed"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var prefs models.PreferencesRow
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	prefs.UserID = userID

	if err := s.db.UpsertPreferences(r.Context(), prefs); err != nil {
		s.log.Error("saving preferences", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving preferences failed"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	goals, err := s.db.ListGoals(r.Context(), userID)
	if err != nil {
		s.log.Error("listing goals", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing goals failed"})
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var goal models.GoalRow
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if goal.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goal type required"})
		return
	}
	if goal.Priority == "" {
		goal.Priority = "medium"
	}
	goal.ID = uuid.New()
	goal.UserID = userID
	goal.IsActive = true
	goal.CreatedAt = time.Now()

	if err := s.db.InsertGoal(r.Context(), goal); err != nil {
		s.log.Error("saving goal", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving goal failed"})
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// nutritionTargets is the computed daily plan for one user.
type nutritionTargets struct {
	BMR      int                `json:"bmr"`
	TDEE     int                `json:"tdee"`
	Calories int                `json:"calories"`
	Macros   metrics.MacroSplit `json:"macros"`
	Goal     string             `json:"goal"`
}

// handleNutritionTargets derives calorie and macro targets from the user's
// profile and highest-priority active goal. Weight-loss goals get a 15%
// deficit, muscle gain a 10% surplus.
func (s *Server) handleNutritionTargets(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	profile, err := s.db.GetProfile(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "profile required for nutrition targets"})
		return
	}
	if err != nil {
		s.log.Error("loading profile", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading profile failed"})
		return
	}
	if profile.WeightKg == nil || profile.HeightCm == nil || profile.Age == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "profile needs weight, height, and age"})
		return
	}

	goal, err := s.db.ActiveGoalType(r.Context(), userID)
	if err != nil {
		s.log.Error("loading active goal", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading goal failed"})
		return
	}

	gender := ""
	if profile.Gender != nil {
		gender = *profile.Gender
	}
	activity := ""
	if profile.ActivityLevel != nil {
		activity = *profile.ActivityLevel
	}

	bmr := metrics.BMR(*profile.WeightKg, *profile.HeightCm, *profile.Age, gender)
	tdee := metrics.TDEE(bmr, activity)

	calories := tdee
	switch goal {
	case "weight_loss":
		calories = int(float64(tdee) * 0.85)
	case "muscle_gain":
		calories = int(float64(tdee) * 1.10)
	}

	writeJSON(w, http.StatusOK, nutritionTargets{
		BMR:      int(bmr),
		TDEE:     tdee,
		Calories: calories,
		Macros:   metrics.MacroDistribution(calories, goal, *profile.WeightKg),
		Goal:     goal,
	})
}

// handleAdherence scores one day's logged intake against submitted targets.
func (s *Server) handleAdherence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Consumed metrics.Intake `json:"consumed"`
		Targets  metrics.Intake `json:"targets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Targets.Calories <= 0 || req.Targets.Protein <= 0 || req.Targets.Carbs <= 0 || req.Targets.Fat <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "targets must be positive"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"adherence_score": metrics.AdherenceScore(req.Consumed, req.Targets),
	})
}

func (s *Server) handleCreateCheckin(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var recovery metrics.RecoveryMetrics
	if err := json.NewDecoder(r.Body).Decode(&recovery); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	score := metrics.ReadinessScore(recovery)
	checkin := models.CheckinRow{
		ID:             uuid.New(),
		UserID:         userID,
		Date:           s.now().UTC().Truncate(24 * time.Hour),
		SleepQuality:   recovery.SleepQuality,
		SleepHours:     recovery.SleepHours,
		StressLevel:    recovery.StressLevel,
		Soreness:       recovery.Soreness,
		Energy:         recovery.Energy,
		Motivation:     recovery.Motivation,
		ReadinessScore: score,
	}

	if err := s.db.InsertCheckin(r.Context(), checkin); err != nil {
		s.log.Error("saving checkin", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving checkin failed"})
		return
	}
	writeJSON(w, http.StatusCreated, checkin)
}

func (s *Server) handleListCheckins(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	checkins, err := s.db.ListCheckins(r.Context(), userID, limit)
	if err != nil {
		s.log.Error("listing checkins", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing checkins failed"})
		return
	}
	writeJSON(w, http.StatusOK, checkins)
}
