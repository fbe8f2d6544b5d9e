package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// AnyEvent subscribes a handler to every event type.
	AnyEvent EventType = "*"

	EventSessionRestored  EventType = "session_restored"
	EventSessionSignedIn  EventType = "session_signed_in"
	EventSessionSignedOut EventType = "session_signed_out"
)

// Event represents a session state change. It never carries the token.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	State     string    `json:"state"`
	Replaced  bool      `json:"replaced,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, state string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		State:     state,
		Timestamp: time.Now().UTC(),
	}
}
