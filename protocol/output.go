package protocol

import "github.com/creastat/gate/core"

// OutputMessageType defines server-to-client message types
type OutputMessageType string

const (
	// Property updates
	OutputPropertyChanged OutputMessageType = "property.changed" // A watched property was written

	// Lifecycle
	OutputSubscriptionStart OutputMessageType = "subscription.start" // Watch registered
	OutputSubscriptionEnd   OutputMessageType = "subscription.end"   // Watch removed

	// Errors
	OutputError OutputMessageType = "error"
)

// OutputMessage represents a message to client
type OutputMessage struct {
	Type      OutputMessageType `json:"type"`
	ID        string            `json:"id"`                // Server-generated message ID
	SessionID string            `json:"sessionId"`         // Session identifier
	ReplyTo   string            `json:"replyTo,omitempty"` // ID of input message
	Payload   any               `json:"payload"`
	Timestamp int64             `json:"timestamp"`
}

// PropertyChangedPayload for property.changed
type PropertyChangedPayload struct {
	EntityID   string     `json:"entityId"`
	EntityType string     `json:"entityType"`
	PropertyID string     `json:"propertyId"`
	Property   string     `json:"property"`
	Value      core.Value `json:"value"`
}

// SubscriptionPayload for subscription.start and subscription.end
type SubscriptionPayload struct {
	EntityID string `json:"entityId"`
	Property string `json:"property"`
}

// ErrorPayload for error messages
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}
