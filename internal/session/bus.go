package session

import (
	"sync"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/render"
)

type EventType string

const (
	EventItemsRefreshed   EventType = "items_refreshed"
	EventSelectionChanged EventType = "selection_changed"
	EventColumnsChanged   EventType = "columns_changed"
	EventStateChanged     EventType = "state_changed"
	EventViewModeChanged  EventType = "view_mode_changed"
)

type Event interface {
	Type() EventType
}

// ItemsRefreshed is published after a poll response replaced the list
type ItemsRefreshed struct {
	Count    int
	Selected int
}

// SelectionChanged lists the items whose selection flag flipped
type SelectionChanged struct {
	IDs      []string
	Selected int
}

type ColumnsChanged struct {
	Change columns.Change
}

type StateChanged struct {
	Previous api.State
	Current  api.State
	Status   string
	Progress float64
}

type ViewModeChanged struct {
	Mode render.Mode
}

func (ItemsRefreshed) Type() EventType   { return EventItemsRefreshed }
func (SelectionChanged) Type() EventType { return EventSelectionChanged }
func (ColumnsChanged) Type() EventType   { return EventColumnsChanged }
func (StateChanged) Type() EventType     { return EventStateChanged }
func (ViewModeChanged) Type() EventType  { return EventViewModeChanged }

type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler func(Event)
}

// Bus delivers events synchronously to subscribers in subscription order.
// Handlers run on the publishing goroutine.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscription
	all         []subscription
	nextID      SubscriptionID
	closed      bool
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[EventType][]subscription)}
}

func (b *Bus) Subscribe(eventType EventType, handler func(Event)) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.closed {
		return b.nextID
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// SubscribeAll registers handler for every event type
func (b *Bus) SubscribeAll(handler func(Event)) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.closed {
		return b.nextID
	}
	b.all = append(b.all, subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a handler. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				b.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
	for i, sub := range b.all {
		if sub.id == id {
			b.all = append(b.all[:i:i], b.all[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(event Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	typed := append([]subscription(nil), b.subscribers[event.Type()]...)
	all := append([]subscription(nil), b.all...)
	b.mu.RUnlock()

	for _, sub := range typed {
		b.call(sub, event)
	}
	for _, sub := range all {
		b.call(sub, event)
	}
}

func (b *Bus) call(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Event handler panicked", "event_type", string(event.Type()), "panic", r)
		}
	}()
	sub.handler(event)
}

// Close drops every subscription; later publishes are ignored
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subscribers = make(map[EventType][]subscription)
	b.all = nil
}
