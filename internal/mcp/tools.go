package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ironcoach/ironcoach/internal/coach"
	"github.com/ironcoach/ironcoach/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

// requireUser pulls the authenticated user from the context.
func requireUser(ctx context.Context) (uuid.UUID, bool) {
	uid := UserIDFromContext(ctx)
	return uid, uid != uuid.Nil
}

// parseLimit converts an optional limit string, defaulting when empty.
func parseLimit(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// --- Tool definitions ---

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Retrieve completed workout sessions, newest first. Each session includes per-exercise logs with sets, reps, and weights."),
	mcp.WithString("limit", mcp.Description("Maximum number of sessions to return. Defaults to 20.")),
)

var toolGetWorkoutSession = mcp.NewTool("get_workout_session",
	mcp.WithDescription("Retrieve one workout session by ID, with its full exercise logs."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("UUID of the session")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Retrieve personal records (max weight, max reps, max volume), newest first. Records are append-only achievements."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise ID (e.g. 'bench-press')")),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Aggregate training statistics: total workouts, sets, reps, volume, weekly volume trend, and per-exercise summaries."),
)

var toolGetNutritionTargets = mcp.NewTool("get_nutrition_targets",
	mcp.WithDescription("Daily calorie and macro targets derived from the user's profile (Mifflin-St Jeor BMR, activity-scaled TDEE) and active fitness goal."),
)

var toolGetReadiness = mcp.NewTool("get_readiness",
	mcp.WithDescription("Recent recovery check-ins with their 0-10 training-readiness scores, newest first."),
	mcp.WithString("limit", mcp.Description("Maximum number of check-ins to return. Defaults to 7.")),
)

var toolAskCoach = mcp.NewTool("ask_coach",
	mcp.WithDescription("Ask the coaching engine a training question. The answer is stored in the user's coach message feed."),
	mcp.WithString("question", mcp.Required(), mcp.Description("Free-form question about workouts, nutrition, plans, motivation, or rest")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	limit := parseLimit(req.GetString("limit", ""), 20)
	sessions, err := h.ds.ListSessionsByUser(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	raw, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id"), nil
	}

	session, err := h.ds.GetSession(ctx, sessionID, uid)
	if err != nil {
		h.log.Error("mcp get_workout_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	records, err := h.ds.ListRecordsByUser(ctx, uid, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	stats, err := h.ds.GetTrainingStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNutritionTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError("profile required: " + err.Error()), nil
	}
	if profile.WeightKg == nil || profile.HeightCm == nil || profile.Age == nil {
		return mcp.NewToolResultError("profile needs weight, height, and age"), nil
	}

	goal, err := h.ds.ActiveGoalType(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_nutrition_targets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
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

	result, err := mcp.NewToolResultJSON(map[string]any{
		"bmr":      int(bmr),
		"tdee":     tdee,
		"calories": calories,
		"macros":   metrics.MacroDistribution(calories, goal, *profile.WeightKg),
		"goal":     goal,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	limit := parseLimit(req.GetString("limit", ""), 7)
	checkins, err := h.ds.ListCheckins(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_readiness", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(checkins)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) askCoach(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, ok := requireUser(ctx)
	if !ok {
		return mcp.NewToolResultError("no authenticated user"), nil
	}

	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required"), nil
	}

	msg := coach.Answer(uid, question, time.Now())
	if err := h.ds.InsertCoachMessage(ctx, msg); err != nil {
		h.log.Error("mcp ask_coach", "error", err)
		return mcp.NewToolResultError("saving message failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(msg)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
