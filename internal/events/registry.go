package events

import (
	"encoding/json"
	"fmt"
	"slices"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// DefaultRegistry returns a registry with all standard event types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(EventCatalogSearched, func() Event { return &CatalogSearched{} })

	// Player events
	r.Register(EventPlayerQueryChanged, func() Event { return &QueryChanged{} })
	r.Register(EventPlayerEpisodeSelected, func() Event { return &EpisodeSelected{} })

	// Source events
	r.Register(EventSourcesInvalidated, func() Event { return &SourcesInvalidated{} })
	r.Register(EventSourcesResolved, func() Event { return &SourcesResolved{} })
	r.Register(EventSourcesFailed, func() Event { return &SourcesFailed{} })

	// History events
	r.Register(EventHistoryBound, func() Event { return &HistoryBound{} })
	r.Register(EventHistoryAdvanced, func() Event { return &HistoryAdvanced{} })

	return r
}

// Types returns the registered event types.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
