// Package coach maps situational triggers to canned coaching messages.
// Selection is pure table lookup: the same trigger always yields the same
// categorical shape (type, sentiment, priority, quick replies).
package coach

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trigger is a closed enumeration of the situations that prompt a coach
// message.
type Trigger string

const (
	TriggerWorkoutStart    Trigger = "workout_start"
	TriggerWorkoutComplete Trigger = "workout_complete"
	TriggerMissedWorkout   Trigger = "missed_workout"
	TriggerPlateau         Trigger = "plateau"
	TriggerPersonalRecord  Trigger = "personal_record"
	TriggerGoalAchieved    Trigger = "goal_achieved"
	TriggerStruggle        Trigger = "struggle_detected"
	TriggerWeeklyCheckin   Trigger = "weekly_checkin"
	TriggerUserQuestion    Trigger = "user_question"
	TriggerScheduleChange  Trigger = "schedule_change"
	TriggerInjuryReported  Trigger = "injury_reported"
)

// Triggers lists every defined trigger, in declaration order.
var Triggers = []Trigger{
	TriggerWorkoutStart,
	TriggerWorkoutComplete,
	TriggerMissedWorkout,
	TriggerPlateau,
	TriggerPersonalRecord,
	TriggerGoalAchieved,
	TriggerStruggle,
	TriggerWeeklyCheckin,
	TriggerUserQuestion,
	TriggerScheduleChange,
	TriggerInjuryReported,
}

type MessageType string

const (
	TypeMotivation          MessageType = "motivation"
	TypeProgressCelebration MessageType = "progress_celebration"
	TypeWorkoutSuggestion   MessageType = "workout_suggestion"
	TypeCorrection          MessageType = "correction"
	TypeGoalSetting         MessageType = "goal_setting"
	TypeEducation           MessageType = "education"
	TypeRecoveryGuidance    MessageType = "recovery_guidance"
)

type Sentiment string

const (
	SentimentPositive     Sentiment = "positive"
	SentimentNeutral      Sentiment = "neutral"
	SentimentConstructive Sentiment = "constructive"
	SentimentCelebratory  Sentiment = "celebratory"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Message is one coaching message as consumed by a chat surface.
type Message struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	Trigger      Trigger     `json:"trigger"`
	Type         MessageType `json:"type"`
	Text         string      `json:"text"`
	QuickReplies []string    `json:"quick_replies"`
	Context      string      `json:"context"`
	Sentiment    Sentiment   `json:"sentiment"`
	Priority     Priority    `json:"priority"`
	Timestamp    time.Time   `json:"timestamp"`
	ReadAt       *time.Time  `json:"read_at,omitempty"`
}

var triggerTypes = map[Trigger]MessageType{
	TriggerWorkoutStart:    TypeMotivation,
	TriggerWorkoutComplete: TypeProgressCelebration,
	TriggerMissedWorkout:   TypeMotivation,
	TriggerPlateau:         TypeWorkoutSuggestion,
	TriggerPersonalRecord:  TypeProgressCelebration,
	TriggerGoalAchieved:    TypeProgressCelebration,
	TriggerStruggle:        TypeCorrection,
	TriggerWeeklyCheckin:   TypeGoalSetting,
	TriggerUserQuestion:    TypeEducation,
	TriggerScheduleChange:  TypeWorkoutSuggestion,
	TriggerInjuryReported:  TypeRecoveryGuidance,
}

var triggerSentiments = map[Trigger]Sentiment{
	TriggerWorkoutStart:    SentimentPositive,
	TriggerWorkoutComplete: SentimentCelebratory,
	TriggerMissedWorkout:   SentimentConstructive,
	TriggerPlateau:         SentimentConstructive,
	TriggerPersonalRecord:  SentimentCelebratory,
	TriggerGoalAchieved:    SentimentCelebratory,
	TriggerStruggle:        SentimentConstructive,
	TriggerWeeklyCheckin:   SentimentNeutral,
	TriggerUserQuestion:    SentimentPositive,
	TriggerScheduleChange:  SentimentNeutral,
	TriggerInjuryReported:  SentimentConstructive,
}

var triggerPriorities = map[Trigger]Priority{
	TriggerWorkoutStart:    PriorityMedium,
	TriggerWorkoutComplete: PriorityLow,
	TriggerMissedWorkout:   PriorityMedium,
	TriggerPlateau:         PriorityMedium,
	TriggerPersonalRecord:  PriorityHigh,
	TriggerGoalAchieved:    PriorityHigh,
	TriggerStruggle:        PriorityMedium,
	TriggerWeeklyCheckin:   PriorityLow,
	TriggerUserQuestion:    PriorityMedium,
	TriggerScheduleChange:  PriorityMedium,
	TriggerInjuryReported:  PriorityUrgent,
}

var triggerTexts = map[Trigger]string{
	TriggerWorkoutStart:    "Time to get moving! Let's start your workout.",
	TriggerWorkoutComplete: "Nice job completing your workout today. Keep it up!",
	TriggerMissedWorkout:   "No worries! Let's get back on track. When can you squeeze in a quick session?",
	TriggerPlateau:         "I've noticed your progress has slowed. Let's try a new approach.",
	TriggerPersonalRecord:  "New personal record! You're getting stronger every day!",
	TriggerGoalAchieved:    "Congratulations! You've achieved your goal! What's next?",
	TriggerStruggle:        "I see you're having a tough time. Remember, progress isn't always linear. You've got this!",
	TriggerWeeklyCheckin:   "How are you feeling about your progress this week? Let's check in!",
	TriggerUserQuestion:    "Great question! I'm here to help you succeed.",
	TriggerScheduleChange:  "Let's adjust your schedule to better fit your lifestyle.",
	TriggerInjuryReported:  "Your safety comes first. Let's modify your plan while you recover.",
}

var triggerReplies = map[Trigger][]string{
	TriggerWorkoutStart:    {"Let's do this!", "I'm ready", "Start"},
	TriggerWorkoutComplete: {"How did it feel?", "Rate difficulty", "Schedule next"},
	TriggerMissedWorkout:   {"Reschedule", "I'll try today", "Plan tomorrow"},
	TriggerPlateau:         {"I'm interested", "Not now", "Tell me more"},
	TriggerPersonalRecord:  {"Amazing!", "Thanks coach", "What's next?"},
	TriggerGoalAchieved:    {"So proud!", "Next goal?", "Celebrate"},
	TriggerStruggle:        {"Help me", "I can do this", "Need tips"},
	TriggerWeeklyCheckin:   {"I'm on track", "I'm struggling", "Need help"},
	TriggerUserQuestion:    {"Thanks!", "More info", "Got it"},
	TriggerScheduleChange:  {"Sounds good", "Prefer different time", "Flexible"},
	TriggerInjuryReported:  {"Need guidance", "See doctor", "Rest advice"},
}

// Known reports whether t is a defined trigger.
func (t Trigger) Known() bool {
	_, ok := triggerTypes[t]
	return ok
}

// Select builds the coaching message for a trigger. Unknown triggers fall
// back to a neutral medium-priority motivation message rather than failing.
func Select(userID uuid.UUID, trigger Trigger, now time.Time) Message {
	msg := Message{
		ID:        uuid.New(),
		UserID:    userID,
		Trigger:   trigger,
		Context:   fmt.Sprintf("Triggered by %s", trigger),
		Timestamp: now,
	}

	if !trigger.Known() {
		msg.Type = TypeMotivation
		msg.Text = "Keep up the great work!"
		msg.QuickReplies = []string{"Thanks!", "Got it"}
		msg.Sentiment = SentimentNeutral
		msg.Priority = PriorityMedium
		return msg
	}

	msg.Type = triggerTypes[trigger]
	msg.Text = triggerTexts[trigger]
	msg.QuickReplies = triggerReplies[trigger]
	msg.Sentiment = triggerSentiments[trigger]
	msg.Priority = triggerPriorities[trigger]
	return msg
}
