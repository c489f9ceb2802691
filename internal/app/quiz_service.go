package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"timed-quiz-service/internal/domain"
)

// SessionRepository abstracts where live controllers are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(sessionID string, controller *Controller)
	Get(sessionID string) (*Controller, bool)
	Delete(sessionID string)
}

// QuizRepository loads question banks (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService opens single-player sessions and routes player commands to them.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	quizID   string
	opts     []ControllerOption
	log      logrus.FieldLogger
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, quizID string, log logrus.FieldLogger, opts ...ControllerOption) *QuizService {
	if quizID == "" {
		quizID = domain.DefaultQuizID
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QuizService{
		sessions: store,
		quizzes:  quizzes,
		quizID:   quizID,
		opts:     opts,
		log:      log,
	}
}

// Questions loads the configured bank. Load or validation failures are logged
// and answered with the built-in default bank, so the result is always playable.
func (s *QuizService) Questions(ctx context.Context) []domain.Question {
	quiz, err := s.loadQuiz(ctx)
	if err != nil {
		s.log.WithError(err).WithField("quiz", s.quizID).Warn("using default question bank")
		return domain.DefaultQuiz().Questions
	}
	return quiz.Questions
}

func (s *QuizService) loadQuiz(ctx context.Context) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return quiz, nil
}

// Open creates an idle session with a freshly loaded bank.
func (s *QuizService) Open(ctx context.Context) *Controller {
	questions := s.Questions(ctx)
	id := uuid.NewString()
	opts := append([]ControllerOption{WithLogger(s.log)}, s.opts...)
	controller := NewController(id, questions, opts...)
	s.sessions.Put(id, controller)
	s.log.WithFields(logrus.Fields{"session": id, "questions": len(questions)}).Info("session opened")
	return controller
}

// Start begins play in an opened session.
func (s *QuizService) Start(_ context.Context, sessionID, playerName string) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	return c.Start(playerName)
}

// Answer submits an option for the current question.
func (s *QuizService) Answer(_ context.Context, sessionID string, optionIndex int) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	return c.Answer(optionIndex)
}

// Skip gives up the current question.
func (s *QuizService) Skip(_ context.Context, sessionID string) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	return c.Skip()
}

// Advance moves to the next question.
func (s *QuizService) Advance(_ context.Context, sessionID string) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	return c.Advance()
}

// Restart returns the session to idle.
func (s *QuizService) Restart(_ context.Context, sessionID string) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	return c.Restart(), nil
}

// Reload refetches the bank for an idle session, bypassing the cache when the
// repository supports invalidation.
func (s *QuizService) Reload(ctx context.Context, sessionID string) (Session, error) {
	c, err := s.get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if snap := c.Snapshot(); snap.State != StateIdle {
		return snap, invalidState("reload", snap.State)
	}
	if inv, ok := s.quizzes.(cacheInvalidator); ok {
		if err := inv.Invalidate(ctx, s.quizID); err != nil {
			s.log.WithError(err).WithField("quiz", s.quizID).Warn("cache invalidation failed")
		}
	}
	return c.Reload(s.Questions(ctx))
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, quizID string) error
}

// Subscribe returns a channel that receives view events for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Event, func(), error) {
	c, err := s.get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := c.Subscribe()
	return ch, cancel, nil
}

// Close stops the session and forgets it.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	c.Close()
	s.sessions.Delete(sessionID)
	s.log.WithField("session", sessionID).Info("session closed")
}

func (s *QuizService) get(sessionID string) (*Controller, error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}
