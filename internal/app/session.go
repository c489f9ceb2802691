package app

import (
	"fmt"
	"strings"

	"timed-quiz-service/internal/domain"
)

// DefaultCountdown is the per-question time budget in seconds.
const DefaultCountdown = 20

// State is the position of a session in the quiz state machine.
type State int

const (
	StateIdle State = iota
	StateQuestionActive
	StateQuestionResolved
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestionActive:
		return "question_active"
	case StateQuestionResolved:
		return "question_resolved"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one playthrough. Transitions return a new value and the view
// events it produced; on error the receiver is returned unchanged.
type Session struct {
	PlayerName string
	Score      int
	Index      int
	Remaining  int
	State      State
	Questions  []domain.Question
	Feedback   *domain.FeedbackShown
	Summary    *domain.SessionEnded
}

// NewSession returns an idle session over the given questions.
func NewSession(questions []domain.Question) Session {
	return Session{Questions: questions, State: StateIdle}
}

// Current returns the question at the current index.
func (s Session) Current() (domain.Question, bool) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.Index], true
}

// Start begins play for the named player with a countdown of the given seconds.
func (s Session) Start(name string, countdown int) (Session, []domain.Event, error) {
	if s.State != StateIdle {
		return s, nil, invalidState("start", s.State)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, nil, fmt.Errorf("%w: player name is required", domain.ErrValidation)
	}

	next := Session{PlayerName: name, Questions: s.Questions}
	events := []domain.Event{{Type: domain.EventScoreChanged, Payload: domain.ScoreChanged{NewScore: 0}}}
	next, events = next.activate(countdown, events)
	return next, events, nil
}

// Answer resolves the current question with the selected option.
func (s Session) Answer(optionIndex int) (Session, []domain.Event, error) {
	if s.State != StateQuestionActive {
		return s, nil, invalidState("answer", s.State)
	}
	q, _ := s.Current()
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return s, nil, fmt.Errorf("%w: option %d of %d", domain.ErrOutOfRange, optionIndex, len(q.Options))
	}

	var events []domain.Event
	selected := optionIndex
	if q.Options[optionIndex].Correct {
		s.Score += q.Points
		events = append(events, domain.Event{Type: domain.EventScoreChanged, Payload: domain.ScoreChanged{NewScore: s.Score}})
		s, events = s.resolve(domain.OutcomeCorrect, "Correct! "+q.Rationale, &selected, events)
	} else {
		s, events = s.resolve(domain.OutcomeIncorrect, "Incorrect. "+q.Rationale, &selected, events)
	}
	return s, events, nil
}

// Skip resolves the current question without awarding points.
func (s Session) Skip() (Session, []domain.Event, error) {
	if s.State != StateQuestionActive {
		return s, nil, invalidState("skip", s.State)
	}
	q, _ := s.Current()
	next, events := s.resolve(domain.OutcomeSkipped, "Question skipped. "+q.Rationale, nil, nil)
	return next, events, nil
}

// Timeout resolves the current question after its countdown ran out.
func (s Session) Timeout() (Session, []domain.Event, error) {
	if s.State != StateQuestionActive {
		return s, nil, invalidState("timeout", s.State)
	}
	next, events := s.timeout(nil)
	return next, events, nil
}

// Tick consumes one second of the countdown and times out at zero.
func (s Session) Tick() (Session, []domain.Event, error) {
	if s.State != StateQuestionActive {
		return s, nil, invalidState("tick", s.State)
	}
	s.Remaining--
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	events := []domain.Event{{Type: domain.EventTimerTick, Payload: domain.TimerTick{Remaining: s.Remaining}}}
	if s.Remaining == 0 {
		s, events = s.timeout(events)
	}
	return s, events, nil
}

// Advance moves past a resolved question.
func (s Session) Advance(countdown int) (Session, []domain.Event, error) {
	if s.State != StateQuestionResolved {
		return s, nil, invalidState("advance", s.State)
	}
	s.Index++
	next, events := s.activate(countdown, nil)
	return next, events, nil
}

// Restart discards progress and returns to idle, keeping the question list.
func (s Session) Restart() (Session, []domain.Event) {
	return NewSession(s.Questions), []domain.Event{{Type: domain.EventSessionReset, Payload: domain.SessionReset{}}}
}

func (s Session) activate(countdown int, events []domain.Event) (Session, []domain.Event) {
	q, ok := s.Current()
	if !ok {
		return s.end(events)
	}
	s.State = StateQuestionActive
	s.Remaining = countdown
	s.Feedback = nil
	events = append(events, domain.Event{Type: domain.EventQuestionDisplayed, Payload: domain.QuestionDisplayed{
		Index:     s.Index,
		Total:     len(s.Questions),
		Text:      q.Prompt,
		Options:   q.OptionTexts(),
		Countdown: countdown,
	}})
	return s, events
}

func (s Session) timeout(events []domain.Event) (Session, []domain.Event) {
	q, _ := s.Current()
	s.Remaining = 0
	return s.resolve(domain.OutcomeTimeout, "Time's up! No points awarded. "+q.Rationale, nil, events)
}

func (s Session) resolve(outcome domain.Outcome, text string, selected *int, events []domain.Event) (Session, []domain.Event) {
	q, _ := s.Current()
	feedback := domain.FeedbackShown{
		Text:                text,
		Outcome:             outcome,
		CorrectOptionIndex:  q.CorrectIndex(),
		SelectedOptionIndex: selected,
	}
	s.State = StateQuestionResolved
	s.Feedback = &feedback
	return s, append(events, domain.Event{Type: domain.EventFeedbackShown, Payload: feedback})
}

func (s Session) end(events []domain.Event) (Session, []domain.Event) {
	summary := Summarize(s.PlayerName, s.Score, s.Questions)
	s.State = StateEnded
	s.Index = len(s.Questions)
	s.Remaining = 0
	s.Feedback = nil
	s.Summary = &summary
	return s, append(events, domain.Event{Type: domain.EventSessionEnded, Payload: summary})
}

func invalidState(op string, state State) error {
	return fmt.Errorf("%w: cannot %s while %s", domain.ErrInvalidState, op, state)
}
