// Package handlers holds the event bus consumers.
package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/streamcz/internal/events"
)

// Handler is a long-running bus consumer supervised by the server runner.
type Handler interface {
	// Start blocks until ctx is done or the handler's subscription closes.
	Start(ctx context.Context) error

	Name() string
}

// BaseHandler carries the bus and a logger tagged with the handler name.
type BaseHandler struct {
	name   string
	bus    *events.Bus
	logger *slog.Logger
}

// NewBaseHandler creates a base handler. bus may be nil for handlers that
// neither subscribe nor publish.
func NewBaseHandler(name string, bus *events.Bus, logger *slog.Logger) *BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaseHandler{
		name:   name,
		bus:    bus,
		logger: logger.With("handler", name),
	}
}

func (h *BaseHandler) Name() string {
	return h.name
}

func (h *BaseHandler) Bus() *events.Bus {
	return h.bus
}

func (h *BaseHandler) Logger() *slog.Logger {
	return h.logger
}

// subscribe registers for the given event types. The returned func
// releases the subscription.
func (h *BaseHandler) subscribe(buffer int, types ...string) (<-chan events.Event, func()) {
	ch := h.bus.SubscribeTypes(buffer, types...)
	return ch, func() { h.bus.Unsubscribe(ch) }
}

// publish logs instead of failing when the event cannot be delivered.
func (h *BaseHandler) publish(ctx context.Context, e events.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(ctx, e); err != nil {
		h.logger.Error("failed to publish event", "type", e.EventType(), "entity", e.EntityID(), "error", err)
	}
}
