package dto

import (
	"time"

	"github.com/courseport/courseport/internal/app/models"
)

// CreateCourseRequest is the manager payload for a new course.
type CreateCourseRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description *string               `json:"description,omitempty"`
	Price       float64               `json:"price" binding:"gte=0"`
	Capacity    int                   `json:"capacity" binding:"gte=0"`
	StartDate   *time.Time            `json:"startDate,omitempty"`
	ImageURL    *string               `json:"imageUrl,omitempty"`
	Instructor  *models.InstructorRef `json:"instructor,omitempty"`
}

// UpdateCourseRequest mirrors CreateCourseRequest for updates.
type UpdateCourseRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description *string               `json:"description,omitempty"`
	Price       float64               `json:"price" binding:"gte=0"`
	Capacity    int                   `json:"capacity" binding:"gte=0"`
	StartDate   *time.Time            `json:"startDate,omitempty"`
	ImageURL    *string               `json:"imageUrl,omitempty"`
	Instructor  *models.InstructorRef `json:"instructor,omitempty"`
	IsActive    *bool                 `json:"isActive,omitempty"`
}

// CreateInternshipRequest is the manager payload for a new internship.
type CreateInternshipRequest struct {
	Title         string     `json:"title" binding:"required"`
	Company       string     `json:"company" binding:"required"`
	Description   *string    `json:"description,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Stipend       *float64   `json:"stipend,omitempty"`
	DurationWeeks int        `json:"durationWeeks" binding:"gte=0"`
	ApplyDeadline *time.Time `json:"applyDeadline,omitempty"`
}

// CreateInstructorRequest is the manager payload for a catalog instructor.
type CreateInstructorRequest struct {
	Name            string  `json:"name" binding:"required"`
	Bio             *string `json:"bio,omitempty"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	ExperienceYears int     `json:"experienceYears" binding:"gte=0"`
	Rating          float64 `json:"rating" binding:"gte=0,lte=5"`
}

// CreateReviewRequest is the candidate payload for a course review.
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty"`
}

// CreateManagerRequest provisions another manager account.
type CreateManagerRequest struct {
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8"`
	FirstName            string `json:"firstName" binding:"required"`
	LastName             string `json:"lastName" binding:"required"`
	CanManageEnrollments bool   `json:"canManageEnrollments"`
}

// UpdateManagerPermissionRequest flips the enrollment-management flag.
type UpdateManagerPermissionRequest struct {
	CanManageEnrollments bool `json:"canManageEnrollments"`
}
