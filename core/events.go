package core

import "github.com/google/uuid"

// Event represents anything emitted by the property graph towards an output
type Event interface {
	EventType() EventType
}

// PropertyChangedEvent is emitted once per write to a watched property
type PropertyChangedEvent struct {
	EntityID   uuid.UUID
	EntityType string
	PropertyID uuid.UUID
	Property   string
	Value      Value
}

func (e PropertyChangedEvent) EventType() EventType {
	return EventTypePropertyChanged
}

// ErrorEvent represents an error
type ErrorEvent struct {
	Code      string
	Error     error
	Retryable bool
	// ReplyTo is the id of the input message that caused the error, if any
	ReplyTo string
}

func (e ErrorEvent) EventType() EventType {
	return EventTypeError
}
