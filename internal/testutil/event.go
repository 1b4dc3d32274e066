package testutil

import (
	"context"
	"sync"

	"github.com/partshop/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventPublisher that keeps every published event.
type EventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Publish records events and returns the configured error.
func (r *EventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return r.err
}

// SetError makes later Publish calls fail after recording.
func (r *EventRecorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in publish order.
func (r *EventRecorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

// Reset clears all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.err = nil
}

var _ shared.EventPublisher = (*EventRecorder)(nil)
