package shared

import "context"

// EventHandler reacts to committed domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the subscribed types, empty means all
	EventTypes() []string
}

// EventPublisher is what application services depend on. Publish is only
// called after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide dispatcher wired in cmd/server
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
