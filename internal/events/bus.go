package events

import (
	"sync"
	"time"
)

// EventSource names the component that raised an event
type EventSource string

const (
	EventSourceSystem  EventSource = "system"
	EventSourceWatcher EventSource = "watcher"
	EventSourceUser    EventSource = "user"
	EventSourcePlugin  EventSource = "plugin"
)

// Wildcard subscribers receive every event type.
const Wildcard = "*"

// Plugin lifecycle event types
const (
	// EventPluginsChanged fires after every full registry rebuild.
	// Data["plugins"] carries the current []plugin.Summary projection.
	EventPluginsChanged = "plugins.changed"
	EventPluginStarted  = "plugin.started"
	EventPluginStopped  = "plugin.stopped"
	EventPluginHidden   = "plugin.hidden"
)

// Config event types
const (
	EventConfigChanged = "config.changed"
)

// Event is a single notification. Data keys depend on Type.
type Event struct {
	Type      string
	Data      map[string]interface{}
	Timestamp time.Time
	Source    EventSource
}

// Subscriber receives events it subscribed to
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
// Function subscribers are not comparable and cannot be unsubscribed.
type SubscriberFunc func(event Event)

// OnEvent implements Subscriber
func (f SubscriberFunc) OnEvent(event Event) {
	f(event)
}

// EventBus fans events out to subscribers by type. Subscriber lists are
// replaced, never mutated, so emitters can read them without copying.
type EventBus struct {
	mu     sync.RWMutex
	topics map[string][]Subscriber
}

func NewEventBus() *EventBus {
	return &EventBus{topics: make(map[string][]Subscriber)}
}

// Subscribe adds subscriber for eventType, or every type with Wildcard
func (eb *EventBus) Subscribe(eventType string, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	current := eb.topics[eventType]
	next := make([]Subscriber, len(current), len(current)+1)
	copy(next, current)
	eb.topics[eventType] = append(next, subscriber)
}

// Unsubscribe drops the first registration of subscriber for eventType
func (eb *EventBus) Unsubscribe(eventType string, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	current := eb.topics[eventType]
	for i := range current {
		if current[i] != subscriber {
			continue
		}
		next := make([]Subscriber, 0, len(current)-1)
		next = append(next, current[:i]...)
		eb.topics[eventType] = append(next, current[i+1:]...)
		if len(eb.topics[eventType]) == 0 {
			delete(eb.topics, eventType)
		}
		return
	}
}

func (eb *EventBus) targets(eventType string) ([]Subscriber, []Subscriber) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.topics[eventType], eb.topics[Wildcard]
}

func stamp(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}

// Emit delivers event on a goroutine per subscriber
func (eb *EventBus) Emit(event Event) {
	stamp(&event)
	typed, all := eb.targets(event.Type)
	for _, list := range [][]Subscriber{typed, all} {
		for _, sub := range list {
			go sub.OnEvent(event)
		}
	}
}

// EmitSync delivers event in subscription order, typed subscribers first
func (eb *EventBus) EmitSync(event Event) {
	stamp(&event)
	typed, all := eb.targets(event.Type)
	for _, list := range [][]Subscriber{typed, all} {
		for _, sub := range list {
			sub.OnEvent(event)
		}
	}
}
