package event

import (
	"slices"
	"sync"

	"github.com/partshop/backend/internal/domain/shared"
)

// handlerRegistry maps event types to handlers. Handlers registered without
// types receive every event.
type handlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

func (r *handlerRegistry) register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		if !slices.Contains(r.byType[t], handler) {
			r.byType[t] = append(r.byType[t], handler)
		}
	}
}

func (r *handlerRegistry) unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wildcard = slices.DeleteFunc(r.wildcard, func(h shared.EventHandler) bool { return h == handler })
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

// handlers returns a snapshot: type-specific handlers first, then wildcards
func (r *handlerRegistry) handlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}
