package protocol

import (
	"time"

	"github.com/creastat/gate/core"
	"github.com/google/uuid"
)

// EventToMessage converts a property graph event to an output message
func EventToMessage(event core.Event, sessionID, replyTo string) *OutputMessage {
	msg := &OutputMessage{
		ID:        generateMessageID(),
		SessionID: sessionID,
		ReplyTo:   replyTo,
		Timestamp: time.Now().UnixMilli(),
	}

	switch e := event.(type) {
	case core.PropertyChangedEvent:
		msg.Type = OutputPropertyChanged
		msg.Payload = PropertyChangedPayload{
			EntityID:   e.EntityID.String(),
			EntityType: e.EntityType,
			PropertyID: e.PropertyID.String(),
			Property:   e.Property,
			Value:      e.Value,
		}

	case core.ErrorEvent:
		errMsg := ""
		if e.Error != nil {
			errMsg = e.Error.Error()
		}
		code := e.Code
		if code == "" {
			code = "GATE_ERROR"
		}
		if replyTo == "" {
			replyTo = e.ReplyTo
		}
		return NewErrorMessage(sessionID, replyTo, code, errMsg, e.Retryable, nil)

	default:
		// Unknown event type, skip
		return nil
	}

	return msg
}

// NewSubscriptionStartMessage creates a subscription.start message
func NewSubscriptionStartMessage(sessionID, entityID, property string) *OutputMessage {
	return &OutputMessage{
		Type:      OutputSubscriptionStart,
		ID:        generateMessageID(),
		SessionID: sessionID,
		Payload: SubscriptionPayload{
			EntityID: entityID,
			Property: property,
		},
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewSubscriptionEndMessage creates a subscription.end message
func NewSubscriptionEndMessage(sessionID, entityID, property string) *OutputMessage {
	return &OutputMessage{
		Type:      OutputSubscriptionEnd,
		ID:        generateMessageID(),
		SessionID: sessionID,
		Payload: SubscriptionPayload{
			EntityID: entityID,
			Property: property,
		},
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(sessionID, replyTo, code, message string, retryable bool, details any) *OutputMessage {
	return &OutputMessage{
		Type:      OutputError,
		ID:        generateMessageID(),
		SessionID: sessionID,
		ReplyTo:   replyTo,
		Payload: ErrorPayload{
			Code:      code,
			Message:   message,
			Retryable: retryable,
			Details:   details,
		},
		Timestamp: time.Now().UnixMilli(),
	}
}

// generateMessageID generates a unique message ID
func generateMessageID() string {
	return "msg-" + uuid.NewString()
}
