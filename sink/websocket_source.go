package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/entity"
	"github.com/creastat/gate/protocol"
	"github.com/creastat/infra/telemetry"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrUnknownEntity is reported when a write targets an entity that does not exist
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnsupportedMessage is reported for input messages of an unhandled type
	ErrUnsupportedMessage = errors.New("unsupported message type")

	// ErrInvalidMessage is reported for input that cannot be decoded
	ErrInvalidMessage = errors.New("invalid message")
)

// EntityResolver looks entities up by id
type EntityResolver interface {
	Entity(id uuid.UUID) (*entity.ReactiveEntityInstance, bool)
}

// WebSocketSourceConfig holds WebSocket source configuration
type WebSocketSourceConfig struct {
	Conn     *websocket.Conn
	Entities EntityResolver
	Logger   telemetry.Logger
	// Errors receives an ErrorEvent for every input message that could not
	// be applied. Optional.
	Errors chan<- core.Event
}

// WebSocketSource applies property.set messages read from a WebSocket
// connection to the resolved entities. Writes re-enter every gate observing
// the written property.
type WebSocketSource struct {
	config WebSocketSourceConfig
}

// NewWebSocketSource creates a new WebSocket source
func NewWebSocketSource(config WebSocketSourceConfig) *WebSocketSource {
	return &WebSocketSource{
		config: config,
	}
}

// Name returns the source name
func (s *WebSocketSource) Name() string {
	return "websocket_source"
}

// Run reads messages until the connection closes or ctx is done. A normal
// close by the peer returns nil.
func (s *WebSocketSource) Run(ctx context.Context) error {
	logger := s.config.Logger.WithModule(s.Name())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblock the pending read
			s.config.Conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		_, data, err := s.config.Conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("WebSocket source closed by peer")
				return nil
			}
			return fmt.Errorf("read websocket message: %w", err)
		}

		if replyTo, err := s.apply(data); err != nil {
			logger.Warn("Ignoring input message", telemetry.String("reply_to", replyTo), telemetry.Err(err))
			s.report(ctx, replyTo, err)
		}
	}
}

// Apply decodes one input message and performs it
func (s *WebSocketSource) Apply(data []byte) error {
	_, err := s.apply(data)
	return err
}

// apply performs one input message and returns its id for the reply
func (s *WebSocketSource) apply(data []byte) (string, error) {
	var msg protocol.InputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("decode input message: %w", errors.Join(ErrInvalidMessage, err))
	}

	switch msg.Type {
	case protocol.InputPropertySet:
		var payload protocol.PropertySetPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return msg.ID, fmt.Errorf("decode %s payload: %w", msg.Type, errors.Join(ErrInvalidMessage, err))
		}
		return msg.ID, s.setProperty(payload)
	}
	return msg.ID, fmt.Errorf("%q: %w", msg.Type, ErrUnsupportedMessage)
}

// report hands a failed input message to the error channel
func (s *WebSocketSource) report(ctx context.Context, replyTo string, err error) {
	if s.config.Errors == nil {
		return
	}
	event := core.ErrorEvent{
		Code:    errorCode(err),
		Error:   err,
		ReplyTo: replyTo,
	}
	select {
	case s.config.Errors <- event:
	case <-ctx.Done():
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownEntity):
		return "UNKNOWN_ENTITY"
	case errors.Is(err, entity.ErrPropertyNotFound):
		return "UNKNOWN_PROPERTY"
	case errors.Is(err, ErrUnsupportedMessage):
		return "UNSUPPORTED_MESSAGE"
	}
	return "INVALID_MESSAGE"
}

func (s *WebSocketSource) setProperty(payload protocol.PropertySetPayload) error {
	id, err := uuid.Parse(payload.EntityID)
	if err != nil {
		return fmt.Errorf("parse entity id: %w", err)
	}
	e, ok := s.config.Entities.Entity(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownEntity)
	}
	if !e.Set(payload.Property, payload.Value) {
		return fmt.Errorf("%s.%s: %w", e.TypeName, payload.Property, entity.ErrPropertyNotFound)
	}
	return nil
}
