package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus is the lifecycle state of a paid-course enrollment.
//
// Valid status graph:
//
//	pending ──► payment_pending ──► accepted
//	   │                │
//	   ├────────────────┘ (accept, payment guard)
//	   └──► rejected ──► pending (resubmit)
//
// accepted and rejected are resting states; cancel (while pending) and
// unenroll (while accepted) remove the record instead of tagging it.
type EnrollmentStatus string

const (
	EnrollmentPending        EnrollmentStatus = "pending"
	EnrollmentPaymentPending EnrollmentStatus = "payment_pending"
	EnrollmentAccepted       EnrollmentStatus = "accepted"
	EnrollmentRejected       EnrollmentStatus = "rejected"
)

// PaymentStatus is the state of the payment attached to an enrollment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentPending:        {EnrollmentPaymentPending, EnrollmentAccepted, EnrollmentRejected},
	EnrollmentPaymentPending: {EnrollmentAccepted},
	EnrollmentRejected:       {EnrollmentPending},
	// accepted has no outgoing transitions; it leaves only by unenroll (delete)
}

// ParseEnrollmentStatus converts a raw string to an EnrollmentStatus,
// returning an error for unknown values.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	st := EnrollmentStatus(s)
	switch st {
	case EnrollmentPending, EnrollmentPaymentPending, EnrollmentAccepted, EnrollmentRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", s)
}

// CanTransition returns true when moving from → to is permitted.
func CanTransition(from, to EnrollmentStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Enrollment represents one candidate's paid relationship to one course.
// At most one row exists per (candidate, course) pair, enforced by a unique
// index; transaction IDs are sparse-unique across all enrollments.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	CandidateID int64            `json:"candidateId" db:"candidate_id"`
	CourseID    int64            `json:"courseId" db:"course_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`

	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentAmount     float64       `json:"paymentAmount" db:"payment_amount"`
	PaymentMethod     *string       `json:"paymentMethod,omitempty" db:"payment_method"`
	TransactionID     *string       `json:"transactionId,omitempty" db:"transaction_id"`
	PaymentScreenshot *string       `json:"paymentScreenshot,omitempty" db:"payment_screenshot"`

	// Message holds the manager's free-text note set on rejection.
	Message *string `json:"message,omitempty" db:"message"`

	AppliedAt       time.Time  `json:"appliedAt" db:"applied_at"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty" db:"responded_at"`
	RespondedBy     *int64     `json:"respondedBy,omitempty" db:"responded_by"`
	PaidAt          *time.Time `json:"paidAt,omitempty" db:"paid_at"`
	CourseStartDate *time.Time `json:"courseStartDate,omitempty" db:"course_start_date"`

	// PassURL points at the QR enrollment pass generated on acceptance.
	PassURL *string `json:"passUrl,omitempty" db:"pass_url"`

	// Relations (populated when needed)
	Candidate *User   `json:"candidate,omitempty"`
	Course    *Course `json:"course,omitempty"`
}

// CanCancel reports whether the candidate may still withdraw the request.
func (e *Enrollment) CanCancel() bool {
	return e.Status == EnrollmentPending
}

// CanUnenroll reports whether a manager may remove the enrollment.
func (e *Enrollment) CanUnenroll() bool {
	return e.Status == EnrollmentAccepted
}

// AcceptGuard reports whether the manager accept transition is allowed:
// a payment screenshot must be attached and the payment completed.
func (e *Enrollment) AcceptGuard() bool {
	return e.PaymentScreenshot != nil && *e.PaymentScreenshot != "" &&
		e.PaymentStatus == PaymentCompleted
}

// ResetForResubmission clears transient fields so a rejected enrollment can
// be revived in place, reusing its (candidate, course) unique-key slot.
func (e *Enrollment) ResetForResubmission() {
	e.Status = EnrollmentPending
	e.PaymentStatus = PaymentPending
	e.TransactionID = nil
	e.PaymentMethod = nil
	e.PaymentScreenshot = nil
	e.Message = nil
	e.RespondedAt = nil
	e.RespondedBy = nil
	e.PaidAt = nil
	e.CourseStartDate = nil
	e.PassURL = nil
	e.AppliedAt = time.Now()
}
