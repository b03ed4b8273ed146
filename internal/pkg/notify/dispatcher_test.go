package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// recordingSender collects deliveries and optionally fails them all.
type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *recordingSender) Send(toEmail, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, toEmail+": "+subject)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 16, zerolog.Nop())

	for i := 0; i < 5; i++ {
		d.Publish(Event{
			Type:          EventEnrollmentReceived,
			ToEmail:       "asha@example.com",
			RecipientName: "Asha Verma",
			CourseTitle:   "Distributed Systems",
		})
	}
	d.Close()

	if got := sender.count(); got != 5 {
		t.Errorf("delivered %d events, want 5", got)
	}
}

func TestDispatcherSwallowsDeliveryErrors(t *testing.T) {
	sender := &recordingSender{fail: true}
	d := NewDispatcher(sender, 4, zerolog.Nop())

	// Publish must not panic or block even when every delivery fails.
	d.Publish(Event{Type: EventPasswordResetCode, ToEmail: "asha@example.com", ResetCode: "123456"})
	d.Close()
}

func TestDispatcherSkipsUnaddressedEvents(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 4, zerolog.Nop())

	d.Publish(Event{Type: EventWelcome})
	d.Publish(Event{Type: EventWelcome, ToEmail: "asha@example.com", RecipientName: "Asha"})
	d.Close()

	if got := sender.count(); got != 1 {
		t.Errorf("delivered %d events, want 1 (unaddressed event skipped)", got)
	}
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 4, zerolog.Nop())
	d.Close()
	d.Close()
}

func TestDispatcherDropsPublishAfterClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 4, zerolog.Nop())
	d.Close()

	// A publisher racing shutdown must be dropped, not panic.
	d.Publish(Event{
		Type:    EventEnrollmentReceived,
		ToEmail: "asha@example.com",
	})

	if got := sender.count(); got != 0 {
		t.Errorf("deliveries after close = %d, want 0", got)
	}
}

func TestRenderKnownEvents(t *testing.T) {
	events := []EventType{
		EventWelcome,
		EventEnrollmentReceived,
		EventPaymentRequested,
		EventPaymentReceived,
		EventEnrollmentAccepted,
		EventEnrollmentRejected,
		EventUnenrolled,
		EventApplicationReceived,
		EventApplicationReviewed,
		EventPasswordResetCode,
		EventCourseStartReminder,
	}

	for _, evType := range events {
		subject, body := render(Event{
			Type:          evType,
			ToEmail:       "asha@example.com",
			RecipientName: "Asha Verma",
			CourseTitle:   "Distributed Systems",
			TargetTitle:   "Backend Intern",
			Status:        "accepted",
			ResetCode:     "123456",
			StartDate:     "Oct 1, 2026",
		})
		if subject == "" {
			t.Errorf("render(%q) produced empty subject", evType)
		}
		if body == "" {
			t.Errorf("render(%q) produced empty body", evType)
		}
	}
}
