// Package events defines the in-process domain event contracts and an
// in-memory dispatcher carrying events to internal listeners.
package events

import (
	"time"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	// GetAggregateID returns the ID of the aggregate that generated the event
	GetAggregateID() uint

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetTimestamp returns when the event occurred
	GetTimestamp() time.Time
}

// EventHandler represents a handler for domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(event DomainEvent) error

	// CanHandle checks if this handler can handle the given event type
	CanHandle(eventType string) bool
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes a single event
	Publish(event DomainEvent) error

	// PublishAll publishes multiple events
	PublishAll(events []DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	Subscribe(eventType string, handler EventHandler) error
}

// EventDispatcher combines publisher and subscriber functionality
type EventDispatcher interface {
	EventPublisher
	EventSubscriber

	// Start starts the event dispatcher
	Start() error

	// Stop stops the event dispatcher
	Stop() error
}
