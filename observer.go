package skitter

import (
	"log/slog"
	"sync"
)

// EventType identifies a crawl lifecycle event.
type EventType string

// Crawl lifecycle events observable through an Emitter.
const (
	EventRequest  EventType = "request"
	EventResponse EventType = "response"
	EventError    EventType = "error"
	EventDone     EventType = "done"
	EventURLFound EventType = "url_found"
)

// Event carries the payload of a crawl lifecycle event. Only the fields
// relevant to the event type are populated: Status for responses, Hash for
// completed pages, Err for errors.
type Event struct {
	Type   EventType
	URL    string
	Status int
	Hash   string
	Err    error
}

// Handler receives an event. Dispatch is synchronous and purely
// observational: no return value is consumed.
type Handler func(Event)

// Emitter dispatches crawl events to registered handlers. A panicking
// handler is isolated and logged; it never aborts the crawl. Safe for
// concurrent use.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	logger   *slog.Logger
}

// NewEmitter creates an Emitter that reports handler panics to the given
// logger. A nil logger falls back to slog.Default().
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		handlers: make(map[EventType][]Handler),
		logger:   logger,
	}
}

// On registers a handler for an event type.
func (e *Emitter) On(t EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[t] = append(e.handlers[t], h)
}

// Emit dispatches an event to every handler registered for its type, in
// registration order.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()

	for _, h := range handlers {
		e.dispatch(h, ev)
	}
}

func (e *Emitter) dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event handler panic",
				"event", string(ev.Type),
				"url", ev.URL,
				"panic", r,
			)
		}
	}()
	h(ev)
}
