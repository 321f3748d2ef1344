package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/storage"
	"github.com/ironcoach/ironcoach/internal/workout"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req struct {
		PlanID *uuid.UUID `json:"plan_id,omitempty"`
		// Inline plans let clients start an ad-hoc workout without
		// saving it first.
		Plan *workout.Plan `json:"plan,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	var plan workout.Plan
	switch {
	case req.PlanID != nil:
		p, err := s.db.GetPlan(r.Context(), *req.PlanID, userID)
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
			return
		}
		if err != nil {
			s.log.Error("loading plan", "plan_id", req.PlanID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading plan failed"})
			return
		}
		plan = *p
	case req.Plan != nil:
		plan = *req.Plan
		if plan.ID == uuid.Nil {
			plan.ID = uuid.New()
		}
		plan.OwnerID = &userID
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan_id or plan required"})
		return
	}

	result, err := s.sessions.Start(r.Context(), userID, plan)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrSessionActive) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	outcome, err := s.sessions.CompleteSet(r.Context(), userID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNoActiveSession) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	state, err := s.sessions.SkipRest(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	sessionID, state, err := s.sessions.State(userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"state":      state,
	})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	session, err := s.sessions.Cancel(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
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

	sessions, err := s.db.ListSessionsByUser(r.Context(), userID, limit)
	if err != nil {
		s.log.Error("listing sessions", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing sessions failed"})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	session, err := s.db.GetSession(r.Context(), sessionID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		s.log.Error("loading session", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading session failed"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	records, err := s.db.ListRecordsByUser(r.Context(), userID, r.URL.Query().Get("exercise_id"))
	if err != nil {
		s.log.Error("listing records", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing records failed"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	stats, err := s.db.GetTrainingStats(r.Context(), userID)
	if err != nil {
		s.log.Error("loading stats", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading stats failed"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	plans, err := s.db.ListPlans(r.Context(), userID)
	if err != nil {
		s.log.Error("listing plans", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing plans failed"})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var plan workout.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(plan.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan needs at least one exercise"})
		return
	}
	for _, ex := range plan.Exercises {
		if ex.Sets < 1 || ex.Reps < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sets and reps must be positive"})
			return
		}
	}

	plan.ID = uuid.New()
	plan.OwnerID = &userID
	plan.CreatedAt = time.Now()

	if err := s.db.SavePlan(r.Context(), plan); err != nil {
		s.log.Error("saving plan", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving plan failed"})
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}

	plan, err := s.db.GetPlan(r.Context(), id, userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if err != nil {
		s.log.Error("loading plan", "plan_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading plan failed"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}

	err = s.db.DeletePlan(r.Context(), id, userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if err != nil {
		s.log.Error("deleting plan", "plan_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "deleting plan failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
