package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher consumes emitted events on its own goroutine and hands them to
// a Sender. Emit never blocks the caller and send failures are logged and
// swallowed, so a dead mail relay can never fail or roll back the mutation
// that produced the event.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger

	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Start launches the consuming goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop drains queued events and waits for the consumer to exit. Must only
// be called after Start.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.events)
	}
	d.mu.Unlock()
	<-d.done
}

// Emit queues an event for delivery. When the queue is full, or the
// dispatcher has already been stopped, the event is dropped with a warning
// rather than blocking or panicking on the request path.
func (d *Dispatcher) Emit(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Warn("notification dispatcher stopped, dropping event", "kind", string(ev.Kind))
		return
	}

	select {
	case d.events <- ev:
	default:
		d.logger.Warn("notification queue full, dropping event", "kind", string(ev.Kind))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.events {
		if err := d.sender.Send(context.Background(), ev); err != nil {
			d.logger.Warn("notification send failed",
				"kind", string(ev.Kind),
				"error", err,
			)
		}
	}
}
