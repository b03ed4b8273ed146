package models

import "time"

// Course represents a paid course in the catalog.
type Course struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Capacity    int        `json:"capacity" db:"capacity"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	ImageURL    *string    `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Instructor is either a catalog reference or inline details.
	Instructor InstructorRef `json:"instructor"`

	// InstructorEntity is populated from the instructors table when the
	// referenced variant is resolved.
	InstructorEntity *Instructor `json:"instructorEntity,omitempty"`
}

// Internship represents an internship listing candidates apply to.
type Internship struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Company       string     `json:"company" db:"company"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Location      *string    `json:"location,omitempty" db:"location"`
	Stipend       *float64   `json:"stipend,omitempty" db:"stipend"`
	DurationWeeks int        `json:"durationWeeks" db:"duration_weeks"`
	ApplyDeadline *time.Time `json:"applyDeadline,omitempty" db:"apply_deadline"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}
