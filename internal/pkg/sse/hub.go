package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Event string
	Data  interface{}
}

type subscriber struct {
	ch     chan Event
	topics []string
	closed bool
}

// Hub fans events out to subscribers by topic. A subscriber listening on
// several topics receives an event once even if it was published to more
// than one of them.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	closed bool
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a subscriber on topics and returns the event channel and cleanup function
func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 16), topics: topics}
	if h.closed {
		close(sub.ch)
		sub.closed = true
		return sub.ch, func() {}
	}
	for _, topic := range topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*subscriber]struct{})
		}
		h.topics[topic][sub] = struct{}{}
	}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.remove(sub)
	}

	return sub.ch, cleanup
}

// remove must be called with h.mu held.
func (h *Hub) remove(sub *subscriber) {
	if sub.closed {
		return
	}
	for _, topic := range sub.topics {
		delete(h.topics[topic], sub)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}
	sub.closed = true
	close(sub.ch)
}

// Close ends every open subscription so streaming handlers can return
// during server shutdown. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, subs := range h.topics {
		for sub := range subs {
			h.remove(sub)
		}
	}
}

// Publish sends event to every subscriber of any of topics.
func (h *Hub) Publish(topics []string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*subscriber]struct{})
	for _, topic := range topics {
		for sub := range h.topics[topic] {
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			select {
			case sub.ch <- event:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers on a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
