package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type Handler func(ctx context.Context, ev Event) error

// Bus is the process-wide publish/subscribe channel for engine events. It is
// a constructed instance, not a package singleton, so tests and future
// multi-session hosts get isolated buses.
//
// Handlers run synchronously in registration order. A failing or panicking
// handler is logged and never blocks its siblings or the publisher, so a
// repository write cannot be derailed by a broken listener.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventType]map[int]Handler
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[EventType]map[int]Handler),
		logger: logger,
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Multiple subscribers per event type may coexist (UI-style subscribers come
// and go; engine subscribers register once at startup).
func (b *Bus) Subscribe(t EventType, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[t] == nil {
		b.subs[t] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[t][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[t], id)
	}
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[ev.Kind()]))
	ids := make([]int, 0, len(b.subs[ev.Kind()]))
	for id := range b.subs[ev.Kind()] {
		ids = append(ids, id)
	}
	// map iteration order is random; deliver in registration order
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[ev.Kind()][id])
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.invoke(ctx, ev, h)
	}
}

func (b *Bus) invoke(ctx context.Context, ev Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", string(ev.Kind()), "panic", r)
		}
	}()
	if err := h(ctx, ev); err != nil {
		b.logger.Error("event handler failed", "event", string(ev.Kind()), "error", err)
	}
}
