package coach

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// answerPool pairs substring keywords with a canned response. First matching
// entry wins, so more specific topics sit higher in the list.
type answerPool struct {
	keywords []string
	text     string
	replies  []string
}

var answerPools = []answerPool{
	{
		keywords: []string{"workout", "exercise"},
		text:     "Let's talk training! A good session balances intensity with recovery. Tell me what you're working on and I'll point you at the right plan.",
		replies:  []string{"Show my plans", "Start a workout", "More tips"},
	},
	{
		keywords: []string{"nutrition", "diet", "food", "calorie"},
		text:     "Fueling right is half the battle. Your targets come from your profile and goal; check your macro split and track a day of intake to see how you're doing.",
		replies:  []string{"Show my targets", "Log my day", "More info"},
	},
	{
		keywords: []string{"plan", "program"},
		text:     "A structured plan beats random sessions every time. Yours pairs progressive workouts with rest built in. Stick with it and the numbers will follow.",
		replies:  []string{"View plan", "Adjust schedule", "Got it"},
	},
	{
		keywords: []string{"motivation", "encourage", "tired"},
		text:     "Showing up is the hardest rep. Every session you finish is a vote for the person you're becoming. You've got this!",
		replies:  []string{"Thanks coach", "Start a workout", "Check in"},
	},
	{
		keywords: []string{"rest", "recovery", "sore"},
		text:     "Recovery is where the adaptation happens. Log a recovery check-in and I'll tell you whether today should be heavy, light, or off.",
		replies:  []string{"Log check-in", "Rest advice", "Got it"},
	},
}

// Answer matches a free-text question against the keyword pools and returns
// a canned coaching reply. Unmatched questions get the generic
// user_question response.
func Answer(userID uuid.UUID, question string, now time.Time) Message {
	msg := Select(userID, TriggerUserQuestion, now)

	lower := strings.ToLower(question)
	for _, pool := range answerPools {
		for _, kw := range pool.keywords {
			if strings.Contains(lower, kw) {
				msg.Text = pool.text
				msg.QuickReplies = pool.replies
				return msg
			}
		}
	}
	return msg
}
