// Package event dispatches committed domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// InMemoryEventBus delivers events synchronously on the publishing
// goroutine. Services publish only after their transaction commits, so by
// the time Publish returns every handler has seen the committed state.
type InMemoryEventBus struct {
	registry *handlerRegistry
	logger   *zap.Logger
	stopped  atomic.Bool
	failures atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{registry: newHandlerRegistry(), logger: logger}
}

// Publish hands each event to its handlers in registration order. Handler
// errors are logged and counted; they never fail the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return nil
	}
	for _, event := range events {
		for _, handler := range b.registry.handlers(event.EventType()) {
			start := time.Now()
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failures.Add(1)
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err))
				continue
			}
			b.logger.Debug("Event handled",
				zap.String("event_type", event.EventType()),
				zap.Duration("took", time.Since(start)))
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; an empty list subscribes to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.unregister(handler)
}

// Start enables delivery
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.stopped.Store(false)
	return nil
}

// Stop drops later events. Delivery in flight finishes on its own goroutine.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.stopped.Store(true)
	return nil
}

// Failures returns the number of handler errors and panics so far
func (b *InMemoryEventBus) Failures() int64 {
	return b.failures.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}
