package slog

import (
	"log/slog"

	"github.com/skitterio/skitter"
)

// Observer translates crawl events into structured log records. Routine
// events log at debug level so a default logger stays quiet; responses
// log at info and failures at error.
type Observer struct {
	logger *slog.Logger
}

// NewObserver creates an Observer writing to the given logger.
// A nil logger falls back to slog.Default().
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger}
}

// Register subscribes the observer to every event type on the emitter.
func (o *Observer) Register(e *skitter.Emitter) {
	for _, t := range []skitter.EventType{
		skitter.EventRequest,
		skitter.EventResponse,
		skitter.EventError,
		skitter.EventDone,
		skitter.EventURLFound,
	} {
		e.On(t, o.Handle)
	}
}

// Handle logs a single event.
func (o *Observer) Handle(ev skitter.Event) {
	switch ev.Type {
	case skitter.EventRequest:
		o.logger.Debug("request", "url", ev.URL)
	case skitter.EventResponse:
		o.logger.Info("response", "url", ev.URL, "status", ev.Status)
	case skitter.EventError:
		o.logger.Error("crawl error", "url", ev.URL, "err", ev.Err)
	case skitter.EventDone:
		o.logger.Debug("done", "url", ev.URL, "hash", ev.Hash)
	case skitter.EventURLFound:
		o.logger.Debug("url found", "url", ev.URL)
	}
}
