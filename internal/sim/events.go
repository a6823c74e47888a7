package sim

import "sync"

// Event identifies a lifecycle signal.
type Event int

const (
	// EventRenderTeardown announces that rendering resources are being
	// released; holders of scene or sensor handles must drop them.
	EventRenderTeardown Event = iota
)

// Events dispatches lifecycle signals to connected handlers. Handlers run
// synchronously on the emitting goroutine, in connection order.
type Events struct {
	mu       sync.Mutex
	handlers map[Event][]func()
}

func NewEvents() *Events {
	return &Events{handlers: make(map[Event][]func())}
}

// Connect registers fn for ev. There is no disconnect; connections live
// as long as the world does.
func (e *Events) Connect(ev Event, fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[ev] = append(e.handlers[ev], fn)
}

// Emit invokes every handler connected to ev. Handlers are called outside
// the lock so they may Connect further handlers.
func (e *Events) Emit(ev Event) {
	e.mu.Lock()
	handlers := append([]func(){}, e.handlers[ev]...)
	e.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
