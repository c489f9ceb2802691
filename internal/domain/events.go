package domain

// EventType names a view event on the wire.
type EventType string

const (
	EventQuestionDisplayed EventType = "questionDisplayed"
	EventTimerTick         EventType = "timerTick"
	EventFeedbackShown     EventType = "feedbackShown"
	EventScoreChanged      EventType = "scoreChanged"
	EventSessionEnded      EventType = "sessionEnded"
	EventSessionReset      EventType = "sessionReset"
)

// Event describes what the presentation layer should currently show.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Outcome is how a question was resolved.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeTimeout   Outcome = "timeout"
)

type QuestionDisplayed struct {
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Countdown int      `json:"countdown"`
}

type TimerTick struct {
	Remaining int `json:"remaining"`
}

// FeedbackShown is emitted once a question is resolved. SelectedOptionIndex is nil
// for skips and timeouts.
type FeedbackShown struct {
	Text                string  `json:"text"`
	Outcome             Outcome `json:"outcome"`
	CorrectOptionIndex  int     `json:"correctOptionIndex"`
	SelectedOptionIndex *int    `json:"selectedOptionIndex"`
}

type ScoreChanged struct {
	NewScore int `json:"newScore"`
}

// SessionEnded carries the final summary.
type SessionEnded struct {
	PlayerName string  `json:"playerName"`
	FinalScore int     `json:"finalScore"`
	MaxScore   int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
}

type SessionReset struct{}
