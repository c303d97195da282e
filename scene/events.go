// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "sync"

// EventType names a scene event.
type EventType string

// Scene events.
const (
	EventSelectionCreated EventType = "selection:created"
	EventSelectionUpdated EventType = "selection:updated"
	EventSelectionCleared EventType = "selection:cleared"
	EventObjectAdded      EventType = "object:added"
	EventObjectRemoved    EventType = "object:removed"
	EventObjectModified   EventType = "object:modified"
	EventPathCreated      EventType = "path:created"

	// EventAny subscribes a handler to every event type.
	EventAny EventType = "*"
)

// Event is delivered to handlers registered with an Emitter.
type Event struct {
	Type EventType

	// Target is the object the event is about. For selection:cleared it is
	// the object that was deselected.
	Target *Object

	// Previous is the formerly active object for selection:updated.
	Previous *Object
}

// Handler receives scene events.
type Handler func(Event)

type subscription struct {
	id uint64
	h  Handler
}

// Emitter is a multi-subscriber event dispatcher.
//
// Handlers are called synchronously, in subscription order, on the goroutine
// that calls Emit. Emitter is safe for concurrent use; a handler may
// subscribe or unsubscribe during dispatch without deadlocking.
type Emitter struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[EventType][]subscription
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[EventType][]subscription)}
}

// On registers h for events of type t and returns a function that removes
// the registration. Calling the returned function more than once is safe.
func (e *Emitter) On(t EventType, h Handler) (off func()) {
	if h == nil {
		return func() {}
	}
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.handlers[t] = append(e.handlers[t], subscription{id: id, h: h})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(t, id) })
	}
}

func (e *Emitter) remove(t EventType, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	subs := e.handlers[t]
	for i, s := range subs {
		if s.id == id {
			// Copy so an in-flight Emit keeps its snapshot intact.
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			e.handlers[t] = next
			return
		}
	}
}

// Emit delivers ev to handlers of ev.Type, then to EventAny handlers.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	typed := e.handlers[ev.Type]
	all := e.handlers[EventAny]
	e.mu.Unlock()

	for _, s := range typed {
		s.h(ev)
	}
	for _, s := range all {
		s.h(ev)
	}
}

// Len returns the number of handlers registered for t.
func (e *Emitter) Len(t EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[t])
}

// Reset removes all handlers.
func (e *Emitter) Reset() {
	e.mu.Lock()
	e.handlers = make(map[EventType][]subscription)
	e.mu.Unlock()
}
