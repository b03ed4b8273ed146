package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	PasswordResetRepository *PasswordResetRepository
	CourseRepository        *CourseRepository
	InternshipRepository    *InternshipRepository
	InstructorRepository    *InstructorRepository
	ReviewRepository        *ReviewRepository
	EnrollmentRepository    *EnrollmentRepository
	ApplicationRepository   *ApplicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		PasswordResetRepository: NewPasswordResetRepository(db),
		CourseRepository:        NewCourseRepository(db),
		InternshipRepository:    NewInternshipRepository(db),
		InstructorRepository:    NewInstructorRepository(db),
		ReviewRepository:        NewReviewRepository(db),
		EnrollmentRepository:    NewEnrollmentRepository(db),
		ApplicationRepository:   NewApplicationRepository(db),
	}
}
