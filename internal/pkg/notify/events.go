package notify

// EventType identifies which notification template to render.
type EventType string

const (
	EventWelcome             EventType = "welcome"
	EventEnrollmentReceived  EventType = "enrollment_received"
	EventPaymentRequested    EventType = "payment_requested"
	EventPaymentReceived     EventType = "payment_received"
	EventEnrollmentAccepted  EventType = "enrollment_accepted"
	EventEnrollmentRejected  EventType = "enrollment_rejected"
	EventUnenrolled          EventType = "unenrolled"
	EventApplicationReceived EventType = "application_received"
	EventApplicationReviewed EventType = "application_reviewed"
	EventPasswordResetCode   EventType = "password_reset_code"
	EventCourseStartReminder EventType = "course_start_reminder"
)

// Event carries everything a template needs to render a notification.
// Fields are optional; each template reads the ones it cares about.
type Event struct {
	Type          EventType
	ToEmail       string
	RecipientName string
	CourseTitle   string
	TargetTitle   string
	Status        string
	Message       string
	ResetCode     string
	PassURL       string
	StartDate     string
}
