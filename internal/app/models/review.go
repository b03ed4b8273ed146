package models

import "time"

// Review is a candidate's rating of a course. One review per
// (course, candidate) pair.
type Review struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	CandidateID int64     `json:"candidateId" db:"candidate_id"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Candidate *User `json:"candidate,omitempty"`
}
