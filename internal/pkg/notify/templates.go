package notify

import "fmt"

// render turns an event into a subject and HTML body. Unknown event
// types render a generic update so a missed template never drops mail.
func render(ev Event) (subject, body string) {
	switch ev.Type {
	case EventWelcome:
		subject = "Welcome to CoursePort"
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your account has been created. You can now browse courses and internships and enroll whenever you are ready.</p>`,
			ev.RecipientName))
	case EventEnrollmentReceived:
		subject = fmt.Sprintf("Enrollment request received - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>We received your enrollment request for <strong>%s</strong>. It is now waiting for review.</p>`,
			ev.RecipientName, ev.CourseTitle))
	case EventPaymentRequested:
		subject = fmt.Sprintf("Payment requested - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your enrollment request for <strong>%s</strong> has been approved. Please submit your payment details to complete the enrollment.</p>`,
			ev.RecipientName, ev.CourseTitle))
	case EventPaymentReceived:
		subject = fmt.Sprintf("Payment proof received - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>We received your payment proof for <strong>%s</strong>. A manager will verify it shortly.</p>`,
			ev.RecipientName, ev.CourseTitle))
	case EventEnrollmentAccepted:
		passSection := ""
		if ev.PassURL != "" {
			passSection = fmt.Sprintf(`<p>Your enrollment pass: <a href="%s">%s</a></p>`, ev.PassURL, ev.PassURL)
		}
		subject = fmt.Sprintf("Enrollment accepted - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Congratulations! Your enrollment in <strong>%s</strong> has been accepted.</p>%s`,
			ev.RecipientName, ev.CourseTitle, passSection))
	case EventEnrollmentRejected:
		reason := ""
		if ev.Message != "" {
			reason = fmt.Sprintf(`<p>Reason: %s</p>`, ev.Message)
		}
		subject = fmt.Sprintf("Enrollment update - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your enrollment request for <strong>%s</strong> was not accepted.</p>%s
			<p>You may submit a new request at any time.</p>`,
			ev.RecipientName, ev.CourseTitle, reason))
	case EventUnenrolled:
		subject = fmt.Sprintf("Enrollment removed - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your enrollment in <strong>%s</strong> has been removed. Contact us if you believe this is a mistake.</p>`,
			ev.RecipientName, ev.CourseTitle))
	case EventApplicationReceived:
		subject = fmt.Sprintf("Application received - %s", ev.TargetTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>We received your application for <strong>%s</strong>.</p>`,
			ev.RecipientName, ev.TargetTitle))
	case EventApplicationReviewed:
		subject = fmt.Sprintf("Application update - %s", ev.TargetTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your application for <strong>%s</strong> has been reviewed. Status: <strong>%s</strong>.</p>`,
			ev.RecipientName, ev.TargetTitle, ev.Status))
	case EventPasswordResetCode:
		subject = "Your password reset code"
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p>Your password reset code is:</p>
			<p style="font-size: 24px; letter-spacing: 4px;"><strong>%s</strong></p>
			<p>This code expires in 10 minutes and can only be used once.</p>
			<p>If you did not request a reset, you can ignore this email.</p>`,
			ev.RecipientName, ev.ResetCode))
	case EventCourseStartReminder:
		subject = fmt.Sprintf("Starting soon - %s", ev.CourseTitle)
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p>
			<p><strong>%s</strong> starts on %s. See you there!</p>`,
			ev.RecipientName, ev.CourseTitle, ev.StartDate))
	default:
		subject = "CoursePort update"
		body = wrap(fmt.Sprintf(`<p>Hello %s,</p><p>%s</p>`, ev.RecipientName, ev.Message))
	}
	return subject, body
}

func wrap(inner string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				%s
				<p>Best regards,<br>The CoursePort Team</p>
			</div>
		</body>
		</html>
	`, inner)
}
