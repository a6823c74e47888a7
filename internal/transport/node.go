// Package transport carries zoom commands from producers to subscribers
// over named topics inside the process.
package transport

import (
	"fmt"
	"sync"
)

// Handler receives a published command value.
type Handler func(value float64)

// Node is a topic-addressed fan-out bus. Delivery is synchronous on the
// publisher's goroutine, so handlers must be safe to call from any
// goroutine.
type Node struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewNode() *Node {
	return &Node{subs: make(map[string][]Handler)}
}

// Subscribe registers fn for values published on topic.
func (n *Node) Subscribe(topic string, fn Handler) error {
	if !IsValidTopic(topic) {
		return fmt.Errorf("transport: subscribe to %q: %w", topic, ErrBadTopic)
	}
	if fn == nil {
		return fmt.Errorf("transport: subscribe to %q: nil handler", topic)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[topic] = append(n.subs[topic], fn)
	return nil
}

// Publish delivers value to every subscriber of topic and returns the
// number of handlers invoked. Publishing on a topic with no subscribers
// is not an error.
func (n *Node) Publish(topic string, value float64) int {
	n.mu.RLock()
	handlers := n.subs[topic]
	n.mu.RUnlock()

	for _, fn := range handlers {
		fn(value)
	}
	return len(handlers)
}
