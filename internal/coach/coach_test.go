package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestSelect_ExhaustiveTables verifies every defined trigger has an entry in
// all four lookup tables, so no trigger can fall through to the defaults.
func TestSelect_ExhaustiveTables(t *testing.T) {
	for _, trig := range Triggers {
		if _, ok := triggerTypes[trig]; !ok {
			t.Errorf("trigger %q missing from type table", trig)
		}
		if _, ok := triggerSentiments[trig]; !ok {
			t.Errorf("trigger %q missing from sentiment table", trig)
		}
		if _, ok := triggerPriorities[trig]; !ok {
			t.Errorf("trigger %q missing from priority table", trig)
		}
		if _, ok := triggerTexts[trig]; !ok {
			t.Errorf("trigger %q missing from text table", trig)
		}
		if _, ok := triggerReplies[trig]; !ok {
			t.Errorf("trigger %q missing from quick-reply table", trig)
		}
	}
}

func TestSelect_PriorityTable(t *testing.T) {
	cases := []struct {
		trigger Trigger
		want    Priority
	}{
		{TriggerInjuryReported, PriorityUrgent},
		{TriggerPersonalRecord, PriorityHigh},
		{TriggerGoalAchieved, PriorityHigh},
		{TriggerWorkoutComplete, PriorityLow},
		{TriggerWeeklyCheckin, PriorityLow},
		{TriggerMissedWorkout, PriorityMedium},
	}
	userID := uuid.New()
	for _, tc := range cases {
		msg := Select(userID, tc.trigger, time.Now())
		if msg.Priority != tc.want {
			t.Errorf("Select(%q).Priority = %q, want %q", tc.trigger, msg.Priority, tc.want)
		}
	}
}

// TestSelect_Deterministic verifies the same trigger always yields the same
// categorical shape.
func TestSelect_Deterministic(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	a := Select(userID, TriggerPlateau, now)
	b := Select(userID, TriggerPlateau, now)

	if a.Type != b.Type || a.Sentiment != b.Sentiment || a.Priority != b.Priority || a.Text != b.Text {
		t.Errorf("Select not deterministic: %+v vs %+v", a, b)
	}
	if a.Type != TypeWorkoutSuggestion || a.Sentiment != SentimentConstructive {
		t.Errorf("plateau shape = (%q, %q), want (workout_suggestion, constructive)", a.Type, a.Sentiment)
	}
}

func TestSelect_UnknownTriggerFallsBack(t *testing.T) {
	msg := Select(uuid.New(), Trigger("solar_flare"), time.Now())
	if msg.Priority != PriorityMedium || msg.Sentiment != SentimentNeutral {
		t.Errorf("unknown trigger = (%q, %q), want (medium, neutral)", msg.Priority, msg.Sentiment)
	}
	if len(msg.QuickReplies) == 0 {
		t.Error("unknown trigger should still carry quick replies")
	}
}

func TestAnswer_KeywordMatch(t *testing.T) {
	userID := uuid.New()
	cases := []struct {
		question string
		wantWord string // substring expected in the reply text
	}{
		{"How should I structure my workout?", "training"},
		{"What should my diet look like?", "Fueling"},
		{"Can you update my plan?", "structured plan"},
		{"I'm so tired, need some motivation", "Showing up"},
		{"My legs are sore, should I rest?", "Recovery"},
	}
	for _, tc := range cases {
		msg := Answer(userID, tc.question, time.Now())
		if msg.Trigger != TriggerUserQuestion {
			t.Errorf("Answer(%q).Trigger = %q, want user_question", tc.question, msg.Trigger)
		}
		if !strings.Contains(strings.ToLower(msg.Text), strings.ToLower(tc.wantWord)) {
			t.Errorf("Answer(%q) = %q, want text mentioning %q", tc.question, msg.Text, tc.wantWord)
		}
	}
}

func TestAnswer_NoMatchUsesGenericReply(t *testing.T) {
	msg := Answer(uuid.New(), "what's the weather like?", time.Now())
	want := triggerTexts[TriggerUserQuestion]
	if msg.Text != want {
		t.Errorf("Answer(unmatched) = %q, want generic %q", msg.Text, want)
	}
}
