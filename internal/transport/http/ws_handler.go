package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewWSHandler(service *app.QuizService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	Questions int    `json:"questions"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets; each connection plays its own session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	controller := h.service.Open(ctx)
	sessionID := controller.ID()
	defer h.service.Close(ctx, sessionID)

	events, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).WithField("session", sessionID).Warn("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev.Payload}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	snap := controller.Snapshot()
	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{
		SessionID: sessionID,
		State:     snap.State.String(),
		Questions: len(snap.Questions),
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, sessionID, inbound); err != nil {
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

var (
	errBadPayload  = errors.New("invalid payload")
	errUnsupported = errors.New("unsupported message type")
)

func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage) error {
	ctx := r.Context()
	var err error
	switch inbound.Type {
	case "start":
		var payload startPayload
		if json.Unmarshal(inbound.Payload, &payload) != nil {
			return errBadPayload
		}
		_, err = h.service.Start(ctx, sessionID, payload.Name)
	case "answer":
		var payload answerPayload
		if json.Unmarshal(inbound.Payload, &payload) != nil || payload.OptionIndex == nil {
			return errBadPayload
		}
		_, err = h.service.Answer(ctx, sessionID, *payload.OptionIndex)
	case "skip":
		_, err = h.service.Skip(ctx, sessionID)
	case "next":
		_, err = h.service.Advance(ctx, sessionID)
	case "restart":
		_, err = h.service.Restart(ctx, sessionID)
	case "reload":
		_, err = h.service.Reload(ctx, sessionID)
	default:
		return errUnsupported
	}
	return err
}

func toErrorPayload(err error) errorPayload {
	code := "internal"
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, errBadPayload), errors.Is(err, errUnsupported):
		code = "validation"
	case errors.Is(err, domain.ErrInvalidState):
		code = "invalid_state"
	case errors.Is(err, domain.ErrOutOfRange):
		code = "out_of_range"
	case errors.Is(err, domain.ErrSessionNotFound):
		code = "not_found"
	}
	return errorPayload{Code: code, Message: err.Error()}
}
