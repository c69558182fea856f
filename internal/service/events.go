package service

import (
	"sync"

	"recipechain/internal/session"
)

// EventType defines the type of event
type EventType string

const (
	EventDatasetReloaded  EventType = "dataset_reloaded"
	EventFrame            EventType = "frame"
	EventSelectionChanged EventType = "selection_changed"
	EventViewSaved        EventType = "view_saved"
	EventViewDeleted      EventType = "view_deleted"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers without blocking
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// SelectionPayload is published with EventSelectionChanged
type SelectionPayload struct {
	Seq     uint64 `json:"seq"`
	Kind    string `json:"kind,omitempty"`
	ID      string `json:"id,omitempty"`
	Heading string `json:"heading,omitempty"`
	Cleared bool   `json:"cleared"`
}

// FramePublisher returns a session frame callback that forwards every frame
// to the bus, followed by a selection event when the selection changed.
func FramePublisher(bus *EventBus) func(session.Frame) {
	return func(f session.Frame) {
		bus.Publish(Event{Type: EventFrame, Payload: f})
		if !f.SelectionChanged {
			return
		}
		payload := SelectionPayload{
			Seq:     f.Seq,
			Kind:    string(f.Selection.Kind),
			ID:      f.Selection.ID,
			Cleared: f.Selection.IsZero(),
		}
		if f.Scene != nil && f.Scene.Panel != nil && f.Scene.Panel.Selected {
			payload.Heading = f.Scene.Panel.Heading
		}
		bus.Publish(Event{Type: EventSelectionChanged, Payload: payload})
	}
}
