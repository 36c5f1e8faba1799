package trace

import (
	"sync"
	"time"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	EventPanelAdded      EventType = "panel_added"
	EventPanelRemoved    EventType = "panel_removed"
	EventSurfaceReady    EventType = "surface_ready"
	EventReadyIgnored    EventType = "ready_ignored"
	EventPluginConstruct EventType = "plugin_construct"
	EventPluginDestroy   EventType = "plugin_destroy"
	EventPanelFailed     EventType = "panel_failed"
	EventReset           EventType = "reset"
)

// Event is one line in the lifecycle log.
type Event struct {
	Time    time.Time
	PanelID string
	Type    EventType
	Detail  string
}

// EventLog keeps the most recent events in a ring buffer.
type EventLog struct {
	mu       sync.RWMutex
	events   []Event
	next     int
	full     bool
	onChange func()
}

// NewEventLog creates a log holding up to capacity events (default 100).
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &EventLog{events: make([]Event, capacity)}
}

// SetOnChange registers a callback run after every append.
func (l *EventLog) SetOnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Append records ev, evicting the oldest event when full.
func (l *EventLog) Append(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.mu.Lock()
	l.events[l.next] = ev
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}
	cb := l.onChange
	l.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Events returns the retained events, oldest first.
func (l *EventLog) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.full {
		return append([]Event(nil), l.events[:l.next]...)
	}
	out := make([]Event, 0, len(l.events))
	out = append(out, l.events[l.next:]...)
	return append(out, l.events[:l.next]...)
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.full {
		return len(l.events)
	}
	return l.next
}
