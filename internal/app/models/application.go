package models

import (
	"fmt"
	"time"
)

// ApplicationStatus is the review state of a free application. Unlike the
// paid enrollment flow there is no payment leg: pending is decided straight
// to accepted or rejected.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// ApplicationTarget distinguishes what the candidate applied to.
type ApplicationTarget string

const (
	TargetInternship ApplicationTarget = "INTERNSHIP"
	TargetCourse     ApplicationTarget = "COURSE"
)

// Application represents a candidate's interest in an internship or a
// free course path, reviewed by a manager independently of payment.
type Application struct {
	ID          int64             `json:"id" db:"id"`
	CandidateID int64             `json:"candidateId" db:"candidate_id"`
	TargetType  ApplicationTarget `json:"targetType" db:"target_type"`
	TargetID    int64             `json:"targetId" db:"target_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Message     *string           `json:"message,omitempty" db:"message"`
	AppliedAt   time.Time         `json:"appliedAt" db:"applied_at"`
	ReviewedAt  *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy  *int64            `json:"reviewedBy,omitempty" db:"reviewed_by"`

	// Relations (populated when needed)
	Candidate *User `json:"candidate,omitempty"`
}

// CanWithdraw reports whether the candidate may still withdraw.
func (a *Application) CanWithdraw() bool {
	return a.Status == ApplicationPending
}

// CanReview reports whether a manager decision is still possible.
func (a *Application) CanReview() bool {
	return a.Status == ApplicationPending
}
