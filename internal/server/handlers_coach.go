package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ironcoach/ironcoach/internal/coach"
)

func (s *Server) handleListCoachMessages(w http.ResponseWriter, r *http.Request) {
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

	msgs, err := s.db.ListCoachMessages(r.Context(), userID, limit)
	if err != nil {
		s.log.Error("listing coach messages", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing messages failed"})
		return
	}

	unread, err := s.db.UnreadCoachMessages(r.Context(), userID)
	if err != nil {
		s.log.Error("counting unread messages", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing messages failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": msgs,
		"unread":   unread,
	})
}

func (s *Server) handleMarkCoachRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	if err := s.db.MarkCoachMessagesRead(r.Context(), userID); err != nil {
		s.log.Error("marking messages read", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "marking messages read failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCoachAsk answers a free-form question and stores the exchange.
func (s *Server) handleCoachAsk(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question required"})
		return
	}

	msg := coach.Answer(userID, req.Question, s.now())
	if err := s.db.InsertCoachMessage(r.Context(), msg); err != nil {
		s.log.Error("saving coach message", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving message failed"})
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// handleCoachEvent fires a coaching trigger reported by the client, such as
// an injury or an achieved goal.
func (s *Server) handleCoachEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req struct {
		Trigger coach.Trigger `json:"trigger"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.Trigger.Known() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown trigger"})
		return
	}

	msg := coach.Select(userID, req.Trigger, s.now())
	if err := s.db.InsertCoachMessage(r.Context(), msg); err != nil {
		s.log.Error("saving coach message", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "saving message failed"})
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
