// Package notify delivers email notifications in the background.
// Publishers never wait on, and never see errors from, delivery:
// enrollment and application writes must succeed even when the mail
// server is down.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/courseport/courseport/internal/pkg/email"
)

// Notifier is the publishing side of the dispatcher.
type Notifier interface {
	Publish(ev Event)
}

// Dispatcher fans events out to a single delivery worker through a
// buffered channel.
type Dispatcher struct {
	sender email.Sender
	events chan Event
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewDispatcher creates a dispatcher and starts its delivery worker.
func NewDispatcher(sender email.Sender, bufferSize int, logger zerolog.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	d := &Dispatcher{
		sender: sender,
		events: make(chan Event, bufferSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues an event for delivery. It never blocks; when the
// buffer is full, or the dispatcher is already closed, the event is
// dropped with a warning. Late publishers such as a cron job finishing
// during shutdown must not panic.
func (d *Dispatcher) Publish(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn().
			Str("event", string(ev.Type)).
			Str("toEmail", ev.ToEmail).
			Msg("Notification dispatcher closed, dropping event")
		return
	}

	select {
	case d.events <- ev:
	default:
		d.logger.Warn().
			Str("event", string(ev.Type)).
			Str("toEmail", ev.ToEmail).
			Msg("Notification buffer full, dropping event")
	}
}

// Close stops accepting events and waits for queued deliveries to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.events {
		if ev.ToEmail == "" {
			continue
		}
		subject, body := render(ev)
		if err := d.sender.Send(ev.ToEmail, subject, body); err != nil {
			d.logger.Error().
				Err(err).
				Str("event", string(ev.Type)).
				Str("toEmail", ev.ToEmail).
				Msg("Notification delivery failed")
		}
	}
}
