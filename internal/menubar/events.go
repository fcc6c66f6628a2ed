package menubar

import (
	"sync"
	"time"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// EventType identifies a lifecycle or visibility milestone.
type EventType string

const (
	EventReady             EventType = "ready"
	EventCreateWindow      EventType = "create-window"
	EventAfterCreateWindow EventType = "after-create-window"
	EventShow              EventType = "show"
	EventAfterShow         EventType = "after-show"
	EventHide              EventType = "hide"
	EventAfterHide         EventType = "after-hide"
	EventAfterClose        EventType = "after-close"
	EventFocusLost         EventType = "focus-lost"
)

// EventTypes returns every event type in emission-documentation order.
func EventTypes() []EventType {
	return []EventType{
		EventReady,
		EventCreateWindow,
		EventAfterCreateWindow,
		EventShow,
		EventAfterShow,
		EventHide,
		EventAfterHide,
		EventAfterClose,
		EventFocusLost,
	}
}

// Event is delivered to listeners and subscribers.
type Event struct {
	Type EventType `json:"type"`
	// WindowID identifies the window instance the event concerns.
	// Empty for ready and for create-window.
	WindowID string `json:"window_id,omitempty"`
	// Window is set on after-create-window only.
	Window Window `json:"-"`
	// Position is the applied origin on show and after-show.
	Position *geometry.Point `json:"position,omitempty"`
	Time     time.Time       `json:"time"`
}

// Listener receives events synchronously, in emission order.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// events is the notification registry. Listeners run synchronously on the
// emitting goroutine; channel subscribers are fed without blocking.
type events struct {
	mu          sync.RWMutex
	nextID      int
	listeners   map[EventType][]listenerEntry
	subscribers map[chan Event]struct{}
	closed      bool
}

func newEvents() *events {
	return &events{
		listeners:   make(map[EventType][]listenerEntry),
		subscribers: make(map[chan Event]struct{}),
	}
}

func (e *events) on(t EventType, fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners[t] = append(e.listeners[t], listenerEntry{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		entries := e.listeners[t]
		for i, entry := range entries {
			if entry.id == id {
				e.listeners[t] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (e *events) subscribe(buffer int) (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)
	e.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

func (e *events) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return
	}
	entries := make([]listenerEntry, len(e.listeners[ev.Type]))
	copy(entries, e.listeners[ev.Type])
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscribers lose events rather than stall the UI thread.
		}
	}
	e.mu.RUnlock()

	for _, entry := range entries {
		entry.fn(ev)
	}
}

func (e *events) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, ch)
	}
	clear(e.listeners)
}
