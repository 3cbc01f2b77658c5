// Package events provides the in-process event bus feeding the SSE stream.
package events

import (
	"sync"
	"time"
)

// EventType represents different event types
type EventType string

const (
	ExperimentCompleted EventType = "EXPERIMENT_COMPLETED"
	SessionCreated      EventType = "SESSION_CREATED"
	SessionReset        EventType = "SESSION_RESET"
	SessionDeleted      EventType = "SESSION_DELETED"
	SessionsSwept       EventType = "SESSIONS_SWEPT"
	HistoryPruned       EventType = "HISTORY_PRUNED"
)

// AllTypes lists every event type, for subscribers that want the full feed.
var AllTypes = []EventType{
	ExperimentCompleted,
	SessionCreated,
	SessionReset,
	SessionDeleted,
	SessionsSwept,
	HistoryPruned,
}

// Event is one published occurrence with loosely typed payload data.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Module    string         `json:"module"`
	Data      map[string]any `json:"data"`
}

// Handler receives published events. Handlers must not block; slow consumers
// buffer on their own channels and drop when full.
type Handler func(*Event)

// Bus is a simple synchronous fan-out bus. Subscriptions live for the process
// lifetime; there is no unsubscribe because stream handlers guard themselves
// with buffered channels instead.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers an event to all handlers subscribed to its type.
func (b *Bus) Publish(t EventType, module string, data map[string]any) {
	event := &Event{
		Type:      t,
		Timestamp: time.Now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	handlers := b.handlers[t]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
