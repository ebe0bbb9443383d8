package events

import "time"

// Event types
const (
	UserCreated         = "user.created"
	UserUpdated         = "user.updated"
	UserDeleted         = "user.deleted"
	UserPasswordChanged = "user.password_changed"
)

// Stream names
const (
	UserEventsStream = "user.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserUpdatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

// UserPasswordChangedEvent deliberately carries no credential material.
type UserPasswordChangedEvent struct {
	UserID string `json:"userId"`
}
