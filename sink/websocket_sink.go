// Package sink forwards property graph events to websocket clients and
// applies property writes received from them.
package sink

import (
	"context"
	"encoding/json"

	"github.com/creastat/gate/core"
	"github.com/creastat/gate/protocol"
	"github.com/creastat/infra/telemetry"
	"github.com/gorilla/websocket"
)

// WebSocketSinkConfig holds WebSocket sink configuration
type WebSocketSinkConfig struct {
	Conn      *websocket.Conn
	SessionID string
	Logger    telemetry.Logger
}

// WebSocketSink sends property graph events to a WebSocket connection
type WebSocketSink struct {
	config WebSocketSinkConfig
}

// NewWebSocketSink creates a new WebSocket sink
func NewWebSocketSink(config WebSocketSinkConfig) *WebSocketSink {
	return &WebSocketSink{
		config: config,
	}
}

// Name returns the sink name
func (ws *WebSocketSink) Name() string {
	return "websocket_sink"
}

// Process reads events from the input channel and sends them to the
// WebSocket connection until input is closed or ctx is done
func (ws *WebSocketSink) Process(ctx context.Context, input <-chan core.Event) error {
	logger := ws.config.Logger.WithModule(ws.Name())
	logger.Info("Starting WebSocket sink", telemetry.String("session_id", ws.config.SessionID))

	for {
		select {
		case <-ctx.Done():
			logger.Info("WebSocket sink context cancelled", telemetry.String("session_id", ws.config.SessionID))
			return ctx.Err()

		case event, ok := <-input:
			if !ok {
				logger.Info("WebSocket sink input channel closed", telemetry.String("session_id", ws.config.SessionID))
				return nil
			}

			// Convert event to protocol message
			msg := protocol.EventToMessage(event, ws.config.SessionID, "")
			if msg == nil {
				logger.Debug("Skipping unknown event type", telemetry.String("session_id", ws.config.SessionID))
				continue
			}

			data, err := json.Marshal(msg)
			if err != nil {
				// NaN and infinite results have no JSON form, skip them and keep the session
				logger.Warn("Failed to marshal message", telemetry.Err(err), telemetry.String("session_id", ws.config.SessionID), telemetry.String("event_type", string(msg.Type)))
				continue
			}

			if err := ws.config.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Error("Failed to send message to WebSocket", telemetry.Err(err), telemetry.String("session_id", ws.config.SessionID), telemetry.String("event_type", string(msg.Type)))
				// Connection closed or failed: drain input so the producer is never blocked
				for range input {
				}
				return nil
			}

			logger.Debug("Sent event to WebSocket", telemetry.String("type", string(msg.Type)), telemetry.String("session_id", ws.config.SessionID))
		}
	}
}

// Send writes a single protocol message
func (ws *WebSocketSink) Send(msg *protocol.OutputMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ws.config.Conn.WriteMessage(websocket.TextMessage, data)
}
