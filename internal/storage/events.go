package storage

import (
	"sort"
	"sync"
)

// EventKind is the kind of change reported by the store.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventDeleted  EventKind = "deleted"
	EventRenamed  EventKind = "renamed"
	EventModified EventKind = "modified"
)

// EventKinds lists every kind a subscriber can register for.
var EventKinds = []EventKind{EventCreated, EventDeleted, EventRenamed, EventModified}

// Event describes a change to a vault path. OldPath is set for renames when
// the previous location is known.
type Event struct {
	Kind    EventKind
	Path    string
	OldPath string
}

// Handler receives store events.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	Kind EventKind
	id   uint64
}

// Hub fans events out to subscribers. Handlers run on the publishing
// goroutine and must not block.
type Hub struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventKind]map[uint64]Handler
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{handlers: make(map[EventKind]map[uint64]Handler)}
}

// Subscribe registers h for events of kind.
func (h *Hub) Subscribe(kind EventKind, handler Handler) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	if h.handlers[kind] == nil {
		h.handlers[kind] = make(map[uint64]Handler)
	}
	h.handlers[kind][h.nextID] = handler
	return Subscription{Kind: kind, id: h.nextID}
}

// Unsubscribe removes the handler behind sub. Unknown or already removed
// subscriptions are ignored.
func (h *Hub) Unsubscribe(sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers[sub.Kind], sub.id)
}

// Count returns the number of handlers registered for kind.
func (h *Hub) Count(kind EventKind) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers[kind])
}

// Publish delivers ev to every handler registered for its kind, in
// subscription order.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	set := h.handlers[ev.Kind]
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hs := make([]Handler, 0, len(ids))
	for _, id := range ids {
		hs = append(hs, set[id])
	}
	h.mu.RUnlock()

	for _, fn := range hs {
		fn(ev)
	}
}
