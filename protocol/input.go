package protocol

import (
	"encoding/json"

	"github.com/creastat/gate/core"
)

// InputMessageType defines client-to-server message types
type InputMessageType string

const (
	// Writes
	InputPropertySet InputMessageType = "property.set" // Write a property of an entity
)

// InputMessage represents a message from client
type InputMessage struct {
	Type      InputMessageType `json:"type"`
	ID        string           `json:"id"`        // Client-generated message ID
	SessionID string           `json:"sessionId"` // Session identifier
	Payload   json.RawMessage  `json:"payload"`
	Timestamp int64            `json:"timestamp"`
}

// PropertySetPayload for property.set
type PropertySetPayload struct {
	EntityID string     `json:"entityId"`
	Property string     `json:"property"`
	Value    core.Value `json:"value"`
}
