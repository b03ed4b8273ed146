package models

import (
	"time"
)

// Role defines the user role type
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleManager   Role = "MANAGER"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"candidate@example.com"`
	Password  string    `json:"-" db:"password"` // Hashed, excluded from JSON
	FirstName string    `json:"firstName" db:"first_name" example:"Asha"`
	LastName  string    `json:"lastName" db:"last_name" example:"Verma"`
	Role      Role      `json:"role" db:"role" example:"CANDIDATE"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// CanManageEnrollments gates manager actions on enrollments and
	// applications. Always false for candidates.
	CanManageEnrollments bool `json:"canManageEnrollments" db:"can_manage_enrollments"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// FullName returns the display name used in notification emails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
