package app

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"timed-quiz-service/internal/domain"
)

// Controller owns one live quiz session and its countdown. All mutations are
// serialized by mu; ticks from a cancelled countdown are discarded by
// comparing generations.
type Controller struct {
	id        string
	countdown int
	interval  time.Duration
	newTicker TickerFunc
	log       logrus.FieldLogger

	mu          sync.Mutex
	session     Session
	timer       *countdown
	generation  uint64
	closed      bool
	subscribers map[chan domain.Event]struct{}
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithCountdown sets the per-question budget in seconds.
func WithCountdown(seconds int) ControllerOption {
	return func(c *Controller) {
		if seconds > 0 {
			c.countdown = seconds
		}
	}
}

// WithTicker replaces the ticker source and tick interval.
func WithTicker(interval time.Duration, newTicker TickerFunc) ControllerOption {
	return func(c *Controller) {
		c.interval = interval
		c.newTicker = newTicker
	}
}

// WithManualClock disables the internal countdown; callers drive Tick.
func WithManualClock() ControllerOption {
	return func(c *Controller) {
		c.newTicker = nil
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(log logrus.FieldLogger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func NewController(id string, questions []domain.Question, opts ...ControllerOption) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		id:          id,
		countdown:   DefaultCountdown,
		interval:    time.Second,
		newTicker:   NewTimeTicker,
		log:         discard,
		session:     NewSession(questions),
		subscribers: make(map[chan domain.Event]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("session", id)
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Snapshot returns the current session value.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Start begins a session for the named player.
func (c *Controller) Start(name string) (Session, error) {
	return c.apply("start", func(s Session) (Session, []domain.Event, error) {
		return s.Start(name, c.countdown)
	})
}

// Answer submits the option at optionIndex for the current question.
func (c *Controller) Answer(optionIndex int) (Session, error) {
	return c.apply("answer", func(s Session) (Session, []domain.Event, error) {
		return s.Answer(optionIndex)
	})
}

// Skip gives up the current question.
func (c *Controller) Skip() (Session, error) {
	return c.apply("skip", Session.Skip)
}

// Timeout resolves the current question as timed out.
func (c *Controller) Timeout() (Session, error) {
	return c.apply("timeout", Session.Timeout)
}

// Tick consumes one second of the current countdown.
func (c *Controller) Tick() (Session, error) {
	return c.apply("tick", Session.Tick)
}

// Advance moves to the next question or ends the session.
func (c *Controller) Advance() (Session, error) {
	return c.apply("advance", func(s Session) (Session, []domain.Event, error) {
		return s.Advance(c.countdown)
	})
}

// Restart returns to idle from any state.
func (c *Controller) Restart() Session {
	s, _ := c.apply("restart", func(s Session) (Session, []domain.Event, error) {
		next, events := s.Restart()
		return next, events, nil
	})
	return s
}

// Reload swaps the question list. Only permitted while idle.
func (c *Controller) Reload(questions []domain.Question) (Session, error) {
	return c.apply("reload", func(s Session) (Session, []domain.Event, error) {
		if s.State != StateIdle {
			return s, nil, invalidState("reload", s.State)
		}
		return NewSession(questions), nil, nil
	})
}

// Subscribe returns a channel of view events.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *Controller) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 32)

	c.mu.Lock()
	if c.closed {
		close(ch)
	} else {
		c.subscribers[ch] = struct{}{}
	}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the countdown and closes all subscriber channels.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopCountdownLocked()
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
}

func (c *Controller) apply(op string, transition func(Session) (Session, []domain.Event, error)) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, events, err := transition(c.session)
	if err != nil {
		c.log.WithError(err).WithField("op", op).Debug("transition rejected")
		return c.session, err
	}
	c.commitLocked(op, next, events)
	return c.session, nil
}

func (c *Controller) commitLocked(op string, next Session, events []domain.Event) {
	prev := c.session
	c.session = next

	switch {
	case next.State != StateQuestionActive:
		c.stopCountdownLocked()
	case prev.State != StateQuestionActive || prev.Index != next.Index:
		c.startCountdownLocked()
	}

	if prev.State != next.State {
		c.log.WithFields(logrus.Fields{
			"op":    op,
			"from":  prev.State.String(),
			"to":    next.State.String(),
			"index": next.Index,
			"score": next.Score,
		}).Debug("session transition")
	}
	c.broadcastLocked(events)
}

func (c *Controller) startCountdownLocked() {
	c.stopCountdownLocked()
	if c.newTicker == nil || c.closed {
		return
	}
	gen := c.generation
	c.timer = runCountdown(c.newTicker(c.interval), func() { c.onTick(gen) })
}

// stopCountdownLocked cancels the running countdown and invalidates any tick
// already in flight.
func (c *Controller) stopCountdownLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.cancel()
		c.timer = nil
	}
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.session.State != StateQuestionActive {
		return
	}
	next, events, err := c.session.Tick()
	if err != nil {
		c.log.WithError(err).Warn("countdown tick rejected")
		return
	}
	c.commitLocked("tick", next, events)
}

func (c *Controller) broadcastLocked(events []domain.Event) {
	for _, ev := range events {
		for ch := range c.subscribers {
			select {
			case ch <- ev:
			default:
				// slow subscriber: drop its oldest event to keep the controller non-blocking
				select {
				case <-ch:
				default:
				}
				ch <- ev
			}
		}
	}
}
